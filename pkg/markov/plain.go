package markov

import (
	"fmt"
	"regexp"
	"strings"
)

const DefaultWordSplitPattern = `\s+`

// DefaultPlain splits on whitespace.
var DefaultPlain = &Plain{split: regexp.MustCompile(DefaultWordSplitPattern)}

// Plain treats every word as its own token.
type Plain struct {
	split *regexp.Regexp
}

func NewPlain(pattern string) (*Plain, error) {
	split, err := compileSplit(pattern)
	if err != nil {
		return nil, err
	}
	return &Plain{split: split}, nil
}

func (p *Plain) Tokenize(line string) []string {
	return splitWords(p.split, line)
}

func (p *Plain) Render(tokens []string) string {
	return strings.Join(tokens, " ")
}

func compileSplit(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = DefaultWordSplitPattern
	}
	split, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid word split pattern: %w", err)
	}
	return split, nil
}

func splitWords(split *regexp.Regexp, line string) []string {
	var words []string
	for _, w := range split.Split(line, -1) {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
