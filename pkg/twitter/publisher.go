package twitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/xhad/markovchina/internal/models"
	"github.com/xhad/markovchina/internal/types"
)

var (
	ErrEmptyStatus   = errors.New("twitter: status text is empty")
	ErrStatusTooLong = errors.New("twitter: status text too long")
)

type PublisherConfig struct {
	PlaceID  string
	MaxChars int
	DryRun   bool
	// Diagnostic receives every composed status before it is posted.
	Diagnostic io.Writer
}

type Publisher struct {
	config PublisherConfig
	poster types.StatusPoster
}

// NewPublisher returns a publisher posting through poster. poster may be nil
// for a dry run.
func NewPublisher(poster types.StatusPoster, config PublisherConfig) (*Publisher, error) {
	if poster == nil && !config.DryRun {
		return nil, errors.New("twitter: a status poster is required unless dry run is set")
	}
	if config.MaxChars == 0 {
		config.MaxChars = 280
	}
	if config.Diagnostic == nil {
		config.Diagnostic = os.Stderr
	}
	return &Publisher{config: config, poster: poster}, nil
}

// Compose builds the status payload for text.
func (p *Publisher) Compose(text string) (models.Status, error) {
	status := models.Status{Text: text, PlaceID: p.config.PlaceID}
	if text == "" {
		return status, ErrEmptyStatus
	}
	if n := utf8.RuneCountInString(text); n > p.config.MaxChars {
		return status, fmt.Errorf("%w: %d > %d characters", ErrStatusTooLong, n, p.config.MaxChars)
	}
	return status, nil
}

// Publish writes text to the diagnostic writer and posts it. In dry-run mode
// nothing is sent and a placeholder confirmation is returned.
func (p *Publisher) Publish(ctx context.Context, text string) (*models.PostConfirmation, error) {
	fmt.Fprintln(p.config.Diagnostic, text)

	status, err := p.Compose(text)
	if err != nil {
		return nil, err
	}

	if p.config.DryRun {
		return &models.PostConfirmation{Text: status.Text, DryRun: true}, nil
	}

	confirmation, err := p.poster.UpdateStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to post status: %w", err)
	}
	return confirmation, nil
}
