package headlines

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Clean reduces a provider title to a single line of plain text. Inline
// markup and HTML entities are resolved to their text and every run of
// whitespace, newlines included, becomes one space.
func Clean(title string) string {
	if strings.ContainsAny(title, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(title))
		if err != nil {
			log.Printf("Error parsing title markup: %v", err)
		} else {
			title = doc.Text()
		}
	}
	return strings.Join(strings.Fields(title), " ")
}

// CleanAll cleans every title and drops the ones left empty.
func CleanAll(titles []string) []string {
	cleaned := make([]string, 0, len(titles))
	for _, title := range titles {
		if c := Clean(title); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return cleaned
}
