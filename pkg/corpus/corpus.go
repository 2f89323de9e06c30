// Package corpus joins headline sequences into the newline-delimited text the
// chain model trains on.
package corpus

import (
	"regexp"
	"strings"
)

var lineSplit = regexp.MustCompile(`\s*\n\s*`)

// Build joins every headline of every sequence with a single newline, in
// argument order then sequence order. Empty sequences contribute nothing.
func Build(sequences ...[]string) string {
	n := 0
	for _, seq := range sequences {
		n += len(seq)
	}

	all := make([]string, 0, n)
	for _, seq := range sequences {
		all = append(all, seq...)
	}
	return strings.Join(all, "\n")
}

// Lines splits a corpus into its non-blank lines, trimming the whitespace
// around each line break.
func Lines(text string) []string {
	var lines []string
	for _, line := range lineSplit.Split(strings.TrimSpace(text), -1) {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
