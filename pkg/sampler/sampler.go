// Package sampler draws sentences from a chain model until one passes the
// quotation balance filter.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/xhad/markovchina/internal/types"
)

var ErrNoValidSentence = errors.New("sampler: no valid sentence found")

type SamplerConfig struct {
	MaxChars    int
	MinChars    int
	MaxAttempts int
	// Seed makes sampling reproducible; zero seeds from the clock.
	Seed uint64
	// Accept overrides Balanced as the validity filter.
	Accept func(string) bool
}

type Sampler struct {
	config SamplerConfig
	model  types.SentenceModel
	rng    *rand.Rand
}

func NewWithConfig(model types.SentenceModel, config SamplerConfig) *Sampler {
	if config.MaxChars == 0 {
		config.MaxChars = 280
	}
	if config.MaxAttempts == 0 {
		config.MaxAttempts = 1000
	}
	if config.Accept == nil {
		config.Accept = Balanced
	}
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Sampler{
		config: config,
		model:  model,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// Sample returns the first accepted sentence. Each call to the model counts
// as one attempt whether it produced a candidate or not.
func (s *Sampler) Sample(ctx context.Context) (string, error) {
	rejected := 0
	for attempt := 0; attempt < s.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		sentence, ok := s.model.MakeShortSentence(s.rng, s.config.MaxChars, s.config.MinChars)
		if !ok {
			continue
		}
		if s.config.Accept(sentence) {
			return sentence, nil
		}
		rejected++
	}
	return "", fmt.Errorf("%w after %d attempts (%d rejected by filter)", ErrNoValidSentence, s.config.MaxAttempts, rejected)
}
