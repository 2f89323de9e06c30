package types

import (
	"context"
	"math/rand/v2"

	"github.com/xhad/markovchina/internal/models"
)

// Core interfaces
type Fetcher interface {
	Fetch(ctx context.Context, query string, pageSize, offset int) (models.Page, error)
}

type Tagger interface {
	Tag(words []string) []TaggedWord
}

type TaggedWord struct {
	Text string
	Tag  string
}

type SentenceModel interface {
	MakeShortSentence(rng *rand.Rand, maxChars, minChars int) (string, bool)
}

type StatusPoster interface {
	UpdateStatus(ctx context.Context, status models.Status) (*models.PostConfirmation, error)
}

type Publisher interface {
	Publish(ctx context.Context, text string) (*models.PostConfirmation, error)
}
