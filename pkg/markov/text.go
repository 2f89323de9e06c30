// Package markov builds word-level Markov chain models from newline-delimited
// text and samples sentences from them. How lines become tokens and how tokens
// become text again is delegated to a Tokenizer and a Renderer, so the same
// model serves plain words and part-of-speech tagged tokens.
package markov

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xhad/markovchina/pkg/corpus"
)

// ErrInsufficientData is returned when no usable line remains to train on.
var ErrInsufficientData = errors.New("markov: corpus has no usable lines")

// Lines matching rejectPattern, after curly quotes are folded to straight
// ones, are not trained on unless KeepMalformed is set.
var rejectPattern = regexp.MustCompile(`(^')|('$)|\s'|'\s|["(\(\)\[\])]`)

var quoteFold = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
)

type Tokenizer interface {
	Tokenize(line string) []string
}

type Renderer interface {
	Render(tokens []string) string
}

type TextConfig struct {
	StateSize int
	Tokenizer Tokenizer
	// Renderer defaults to the Tokenizer when it also renders, else Plain.
	Renderer Renderer
	// KeepMalformed trains on lines with quotes, parentheses or brackets.
	KeepMalformed bool

	Tries    int
	MinWords int
	MaxWords int
	// MaxOverlapRatio enables the originality test when non-zero: a sentence
	// is rejected if it repeats more than min(MaxOverlapTotal,
	// round(MaxOverlapRatio*words)) consecutive corpus words.
	MaxOverlapRatio float64
	MaxOverlapTotal int
}

// Text is a sentence model trained on one corpus.
type Text struct {
	config   TextConfig
	chain    *Chain
	runs     [][]string
	rejoined string
}

func NewWithConfig(text string, config TextConfig) (*Text, error) {
	if config.StateSize == 0 {
		config.StateSize = 1
	}
	if config.StateSize < 0 {
		return nil, fmt.Errorf("state size must be positive, got %d", config.StateSize)
	}
	if config.Tokenizer == nil {
		config.Tokenizer = DefaultPlain
	}
	if config.Renderer == nil {
		if r, ok := config.Tokenizer.(Renderer); ok {
			config.Renderer = r
		} else {
			config.Renderer = DefaultPlain
		}
	}
	if config.Tries == 0 {
		config.Tries = 10
	}
	if config.MaxOverlapTotal == 0 {
		config.MaxOverlapTotal = 15
	}

	var runs [][]string
	for _, line := range corpus.Lines(text) {
		if !config.KeepMalformed && !wellFormed(line) {
			continue
		}
		if tokens := config.Tokenizer.Tokenize(line); len(tokens) > 0 {
			runs = append(runs, tokens)
		}
	}
	if len(runs) == 0 {
		return nil, ErrInsufficientData
	}

	chain, err := NewChain(runs, config.StateSize)
	if err != nil {
		return nil, err
	}

	rendered := make([]string, len(runs))
	for i, run := range runs {
		rendered[i] = config.Renderer.Render(run)
	}

	return &Text{
		config:   config,
		chain:    chain,
		runs:     runs,
		rejoined: strings.Join(rendered, " "),
	}, nil
}

func wellFormed(line string) bool {
	return !rejectPattern.MatchString(quoteFold.Replace(line))
}

func (t *Text) Chain() *Chain {
	return t.chain
}

// Runs returns the tokenized training lines.
func (t *Text) Runs() [][]string {
	return t.runs
}

func (t *Text) Render(tokens []string) string {
	return t.config.Renderer.Render(tokens)
}

// MakeSentence walks the chain up to Tries times and renders the first walk
// that satisfies the word bounds and, when enabled, the originality test.
func (t *Text) MakeSentence(rng *rand.Rand) (string, bool) {
	for i := 0; i < t.config.Tries; i++ {
		words, ok := t.chain.Walk(rng)
		if !ok {
			continue
		}
		if t.config.MinWords > 0 && len(words) < t.config.MinWords {
			continue
		}
		if t.config.MaxWords > 0 && len(words) > t.config.MaxWords {
			continue
		}
		if t.config.MaxOverlapRatio > 0 && !t.original(words) {
			continue
		}
		return t.Render(words), true
	}
	return "", false
}

// MakeShortSentence returns the first of up to Tries sentences whose length in
// characters is within [minChars, maxChars].
func (t *Text) MakeShortSentence(rng *rand.Rand, maxChars, minChars int) (string, bool) {
	for i := 0; i < t.config.Tries; i++ {
		sentence, ok := t.MakeSentence(rng)
		if !ok {
			continue
		}
		if n := utf8.RuneCountInString(sentence); n >= minChars && n <= maxChars {
			return sentence, true
		}
	}
	return "", false
}

func (t *Text) original(words []string) bool {
	ratio := int(math.RoundToEven(t.config.MaxOverlapRatio * float64(len(words))))
	overlapMax := min(t.config.MaxOverlapTotal, ratio)
	gramCount := max(len(words)-overlapMax, 1)

	for i := 0; i < gramCount; i++ {
		end := min(i+overlapMax+1, len(words))
		if strings.Contains(t.rejoined, t.Render(words[i:end])) {
			return false
		}
	}
	return true
}
