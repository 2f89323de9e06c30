package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/markovchina/internal/models"
	"github.com/xhad/markovchina/internal/types"
	"github.com/xhad/markovchina/pkg/markov"
	"github.com/xhad/markovchina/pkg/sampler"
	"github.com/xhad/markovchina/pkg/twitter"
)

type staticFetcher struct {
	titles []string
	err    error
	calls  int
}

func (f *staticFetcher) Fetch(ctx context.Context, query string, pageSize, offset int) (models.Page, error) {
	f.calls++
	if f.err != nil {
		return models.Page{}, f.err
	}
	return models.Page{Titles: f.titles, Exhausted: true}, nil
}

type nounTagger struct{}

func (nounTagger) Tag(words []string) []types.TaggedWord {
	out := make([]types.TaggedWord, len(words))
	for i, w := range words {
		out[i] = types.TaggedWord{Text: w, Tag: "NN"}
	}
	return out
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(ctx context.Context, text string) (*models.PostConfirmation, error) {
	return nil, f.err
}

func newTaggedConfig(t *testing.T) markov.TextConfig {
	t.Helper()
	tagged, err := markov.NewTagged(nounTagger{}, "")
	require.NoError(t, err)
	return markov.TextConfig{StateSize: 1, Tokenizer: tagged}
}

func headlineSources() []Source {
	return []Source{
		{Name: "ft", Fetcher: &staticFetcher{titles: []string{"Headline A", "Headline B"}}, PageSize: 100, Total: 400},
		{Name: "newsapi", Fetcher: &staticFetcher{titles: []string{"Headline A", "Headline B"}}, PageSize: 100, Total: 100},
	}
}

func TestRunDryRun(t *testing.T) {
	var diag bytes.Buffer
	publisher, err := twitter.NewPublisher(nil, twitter.PublisherConfig{DryRun: true, Diagnostic: &diag})
	require.NoError(t, err)

	var stages []string
	counts := map[string]int{}
	p, err := NewWithConfig(PipelineConfig{
		Sources:   headlineSources(),
		Model:     newTaggedConfig(t),
		Sampler:   sampler.SamplerConfig{Seed: 7},
		Publisher: publisher,
		OnStage:   func(stage string) { stages = append(stages, stage) },
		OnSource:  func(name string, n int) { counts[name] = n },
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Headline A\nHeadline B\nHeadline A\nHeadline B", result.Corpus)
	assert.Equal(t, []string{StageFetch, StageModel, StageSample, StagePublish}, stages)
	assert.Equal(t, map[string]int{"ft": 2, "newsapi": 2}, counts)

	for _, w := range strings.Fields(result.Sentence) {
		assert.Contains(t, []string{"Headline", "A", "B"}, w)
	}
	assert.True(t, strings.HasPrefix(result.Sentence, "Headline"))
	assert.NotContains(t, result.Sentence, markov.TagSeparator)

	require.NotNil(t, result.Confirmation)
	assert.True(t, result.Confirmation.DryRun)
	assert.Equal(t, result.Sentence+"\n", diag.String())
}

func TestRunFetchFailureStopsPipeline(t *testing.T) {
	boom := errors.New("connection refused")
	second := &staticFetcher{titles: []string{"Headline"}}
	publisher, err := twitter.NewPublisher(nil, twitter.PublisherConfig{DryRun: true, Diagnostic: &bytes.Buffer{}})
	require.NoError(t, err)

	p, err := NewWithConfig(PipelineConfig{
		Sources: []Source{
			{Name: "ft", Fetcher: &staticFetcher{err: boom}, PageSize: 100, Total: 100},
			{Name: "newsapi", Fetcher: second, PageSize: 100, Total: 100},
		},
		Publisher: publisher,
	})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageFetch, stageErr.Stage)
	assert.Equal(t, "ft", stageErr.Source)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, second.calls)
}

func TestRunEmptyCorpus(t *testing.T) {
	publisher, err := twitter.NewPublisher(nil, twitter.PublisherConfig{DryRun: true, Diagnostic: &bytes.Buffer{}})
	require.NoError(t, err)

	p, err := NewWithConfig(PipelineConfig{
		Sources:   []Source{{Name: "ft", Fetcher: &staticFetcher{}, PageSize: 100, Total: 100}},
		Publisher: publisher,
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	assert.ErrorIs(t, err, markov.ErrInsufficientData)
	assert.Empty(t, result.Corpus)
}

func TestRunNoValidSentence(t *testing.T) {
	publisher, err := twitter.NewPublisher(nil, twitter.PublisherConfig{DryRun: true, Diagnostic: &bytes.Buffer{}})
	require.NoError(t, err)

	p, err := NewWithConfig(PipelineConfig{
		Sources: headlineSources(),
		Sampler: sampler.SamplerConfig{
			MaxAttempts: 5,
			Accept:      func(string) bool { return false },
		},
		Publisher: publisher,
	})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageSample, stageErr.Stage)
	assert.ErrorIs(t, err, sampler.ErrNoValidSentence)
}

func TestRunPublishFailure(t *testing.T) {
	boom := errors.New("unauthorized")
	p, err := NewWithConfig(PipelineConfig{
		Sources:   headlineSources(),
		Publisher: failingPublisher{err: boom},
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "publish")
	assert.NotEmpty(t, result.Sentence)
	assert.Nil(t, result.Confirmation)
}

func TestNewWithConfigValidation(t *testing.T) {
	publisher := failingPublisher{}

	_, err := NewWithConfig(PipelineConfig{Publisher: publisher})
	assert.Error(t, err)

	_, err = NewWithConfig(PipelineConfig{Sources: []Source{{Name: "ft"}}, Publisher: publisher})
	assert.ErrorContains(t, err, "ft")

	_, err = NewWithConfig(PipelineConfig{Sources: headlineSources()})
	assert.Error(t, err)
}
