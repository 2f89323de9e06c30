package sampler

import "strings"

// Balanced reports whether text closes the quotations it opens. The three
// checks are independent: curly single quotes (closing marks double as
// apostrophes, so only an excess of openers is rejected), curly double quotes
// and straight double quotes.
func Balanced(text string) bool {
	if strings.Count(text, "‘") > strings.Count(text, "’") {
		return false
	}
	if strings.Count(text, "“") != strings.Count(text, "”") {
		return false
	}
	if strings.Count(text, `"`)%2 != 0 {
		return false
	}
	return true
}
