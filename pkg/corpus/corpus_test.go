package corpus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/markovchina/pkg/corpus"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		sequences [][]string
		want      string
	}{
		{
			name:      "two providers",
			sequences: [][]string{{"Headline A", "Headline B"}, {"Headline A", "Headline B"}},
			want:      "Headline A\nHeadline B\nHeadline A\nHeadline B",
		},
		{
			name:      "empty sequences contribute nothing",
			sequences: [][]string{{}, {"only"}, nil},
			want:      "only",
		},
		{
			name:      "no input",
			sequences: nil,
			want:      "",
		},
		{
			name:      "duplicates are kept",
			sequences: [][]string{{"same", "same"}},
			want:      "same\nsame",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, corpus.Build(tt.sequences...))
		})
	}
}

func TestBuildRoundTrip(t *testing.T) {
	a := []string{"China exports slow", "Yuan slips"}
	b := []string{"Markets rally", "Talks resume", "Beijing responds"}

	lines := corpus.Lines(corpus.Build(a, b))
	assert.Equal(t, append(append([]string{}, a...), b...), lines)
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"one", "two", "three"}, corpus.Lines("  one \n\n two\n   \nthree\n"))
	assert.Nil(t, corpus.Lines(""))
	assert.Nil(t, corpus.Lines(" \n \n"))
}
