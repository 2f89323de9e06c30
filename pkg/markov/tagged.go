package markov

import (
	"regexp"
	"strings"

	"github.com/jdkato/prose/tag"
	"github.com/xhad/markovchina/internal/types"
)

// TagSeparator joins a word and its part-of-speech tag into one token.
const TagSeparator = "::"

// Compose returns the chain token for word tagged as pos.
func Compose(word, pos string) string {
	return word + TagSeparator + pos
}

// Decompose splits a composite token. Penn Treebank tags never end in a colon
// except the ":" tag itself, so a token ending in ":::" carries that tag and
// any other token splits at its last separator.
func Decompose(token string) (word, pos string) {
	if strings.HasSuffix(token, ":::") {
		return token[:len(token)-3], ":"
	}
	i := strings.LastIndex(token, TagSeparator)
	if i < 0 {
		return token, ""
	}
	return token[:i], token[i+len(TagSeparator):]
}

// Tagged tokenizes a line into word::TAG tokens. The whole line is tagged in
// one call because the tagger uses the surrounding words as context.
type Tagged struct {
	tagger types.Tagger
	split  *regexp.Regexp
}

func NewTagged(tagger types.Tagger, pattern string) (*Tagged, error) {
	split, err := compileSplit(pattern)
	if err != nil {
		return nil, err
	}
	return &Tagged{tagger: tagger, split: split}, nil
}

func (t *Tagged) Tokenize(line string) []string {
	words := splitWords(t.split, line)
	if len(words) == 0 {
		return nil
	}

	tagged := t.tagger.Tag(words)
	tokens := make([]string, 0, len(tagged))
	for _, w := range tagged {
		tokens = append(tokens, Compose(w.Text, w.Tag))
	}
	return tokens
}

// Render keeps only the word half of each token.
func (t *Tagged) Render(tokens []string) string {
	words := make([]string, len(tokens))
	for i, token := range tokens {
		words[i], _ = Decompose(token)
	}
	return strings.Join(words, " ")
}

// PerceptronTagger adapts the pretrained averaged perceptron tagger.
type PerceptronTagger struct {
	tagger *tag.PerceptronTagger
}

func NewPerceptronTagger() *PerceptronTagger {
	return &PerceptronTagger{tagger: tag.NewPerceptronTagger()}
}

func (p *PerceptronTagger) Tag(words []string) []types.TaggedWord {
	tokens := p.tagger.Tag(words)
	out := make([]types.TaggedWord, len(tokens))
	for i, tok := range tokens {
		out[i] = types.TaggedWord{Text: tok.Text, Tag: tok.Tag}
	}
	return out
}
