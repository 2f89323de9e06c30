// Package pipeline runs one fetch, train, sample and publish cycle.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/xhad/markovchina/internal/models"
	"github.com/xhad/markovchina/internal/types"
	"github.com/xhad/markovchina/pkg/corpus"
	"github.com/xhad/markovchina/pkg/headlines"
	"github.com/xhad/markovchina/pkg/markov"
	"github.com/xhad/markovchina/pkg/sampler"
)

const (
	StageFetch   = "fetch"
	StageModel   = "model"
	StageSample  = "sample"
	StagePublish = "publish"
)

// StageError names the stage that aborted a run.
type StageError struct {
	Stage  string
	Source string
	Err    error
}

func (e *StageError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Source is one headline provider and the paging to request from it.
type Source struct {
	Name     string
	Fetcher  types.Fetcher
	Query    string
	PageSize int
	Total    int
}

type PipelineConfig struct {
	Sources   []Source
	Model     markov.TextConfig
	Sampler   sampler.SamplerConfig
	Publisher types.Publisher

	// OnStage is called as each stage starts.
	OnStage func(stage string)
	// OnSource is called after a source has been fetched.
	OnSource func(name string, count int)
}

type Pipeline struct {
	config PipelineConfig
}

// Result records what a run produced.
type Result struct {
	Corpus       string
	Sentence     string
	Confirmation *models.PostConfirmation
}

func NewWithConfig(config PipelineConfig) (*Pipeline, error) {
	if len(config.Sources) == 0 {
		return nil, errors.New("pipeline: at least one source is required")
	}
	for _, s := range config.Sources {
		if s.Fetcher == nil {
			return nil, fmt.Errorf("pipeline: source %q has no fetcher", s.Name)
		}
	}
	if config.Publisher == nil {
		return nil, errors.New("pipeline: a publisher is required")
	}
	if config.OnStage == nil {
		config.OnStage = func(string) {}
	}
	if config.OnSource == nil {
		config.OnSource = func(string, int) {}
	}
	return &Pipeline{config: config}, nil
}

// Run executes every stage in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	p.config.OnStage(StageFetch)
	sequences := make([][]string, 0, len(p.config.Sources))
	for _, s := range p.config.Sources {
		titles, err := headlines.Paginate(ctx, s.Fetcher, s.Query, s.PageSize, s.Total)
		if err != nil {
			return result, &StageError{Stage: StageFetch, Source: s.Name, Err: err}
		}
		p.config.OnSource(s.Name, len(titles))
		sequences = append(sequences, titles)
	}
	result.Corpus = corpus.Build(sequences...)

	p.config.OnStage(StageModel)
	model, err := markov.NewWithConfig(result.Corpus, p.config.Model)
	if err != nil {
		return result, &StageError{Stage: StageModel, Err: err}
	}

	p.config.OnStage(StageSample)
	sentence, err := sampler.NewWithConfig(model, p.config.Sampler).Sample(ctx)
	if err != nil {
		return result, &StageError{Stage: StageSample, Err: err}
	}
	result.Sentence = sentence

	p.config.OnStage(StagePublish)
	confirmation, err := p.config.Publisher.Publish(ctx, sentence)
	if err != nil {
		return result, &StageError{Stage: StagePublish, Err: err}
	}
	result.Confirmation = confirmation

	return result, nil
}
