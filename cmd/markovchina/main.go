package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/markovchina/internal/pipeline"
	"github.com/xhad/markovchina/internal/types"
	cfgPkg "github.com/xhad/markovchina/pkg/config"
	"github.com/xhad/markovchina/pkg/ft"
	"github.com/xhad/markovchina/pkg/markov"
	"github.com/xhad/markovchina/pkg/newsapi"
	"github.com/xhad/markovchina/pkg/sampler"
	"github.com/xhad/markovchina/pkg/twitter"
)

type flags struct {
	configPath  string
	dryRun      bool
	seed        uint64
	maxAttempts int
}

func main() {
	f := parseFlags()

	config, err := cfgPkg.LoadConfig(f.configPath)
	if err != nil {
		log.Fatal(err)
	}
	applyFlags(config, f)

	if err := cfgPkg.Join(config.Validate()); err != nil {
		color.Red("Invalid configuration:\n%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config file")
	flag.BoolVar(&f.dryRun, "dry-run", false, "Print the sentence without posting it")
	flag.Uint64Var(&f.seed, "seed", 0, "Random seed for sentence generation (0 uses the clock)")
	flag.IntVar(&f.maxAttempts, "max-attempts", 0, "Maximum sentence generation attempts")
	flag.Parse()
	return f
}

// applyFlags overrides config with the flags given on the command line.
func applyFlags(config *cfgPkg.Config, f flags) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "dry-run":
			config.Twitter.DryRun = f.dryRun
		case "seed":
			config.Sampler.Seed = f.seed
		case "max-attempts":
			config.Sampler.MaxAttempts = f.maxAttempts
		}
	})
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

var stageDescriptions = map[string]string{
	pipeline.StageFetch:   " Fetching headlines...",
	pipeline.StageModel:   " Training model...",
	pipeline.StageSample:  " Generating sentence...",
	pipeline.StagePublish: " Publishing...",
}

func run(ctx context.Context, config *cfgPkg.Config) error {
	sources, err := buildSources(config)
	if err != nil {
		return err
	}

	tokenizer, err := markov.NewTagged(markov.NewPerceptronTagger(), config.Model.WordSplitPattern)
	if err != nil {
		return fmt.Errorf("failed to initialize tokenizer: %w", err)
	}

	publisher, err := buildPublisher(config)
	if err != nil {
		return err
	}

	var spinner *progressbar.ProgressBar
	finish := func() {
		if spinner != nil {
			spinner.Finish()
			fmt.Println()
			spinner = nil
		}
	}
	defer finish()

	p, err := pipeline.NewWithConfig(pipeline.PipelineConfig{
		Sources: sources,
		Model: markov.TextConfig{
			StateSize:       config.Model.StateSize,
			Tokenizer:       tokenizer,
			KeepMalformed:   config.Model.KeepMalformed,
			Tries:           config.Model.Tries,
			MaxOverlapRatio: config.Model.MaxOverlapRatio,
			MaxOverlapTotal: config.Model.MaxOverlapTotal,
		},
		Sampler: sampler.SamplerConfig{
			MaxChars:    config.Sampler.MaxChars,
			MinChars:    config.Sampler.MinChars,
			MaxAttempts: config.Sampler.MaxAttempts,
			Seed:        config.Sampler.Seed,
		},
		Publisher: publisher,
		OnStage: func(stage string) {
			finish()
			// The publisher writes the sentence itself.
			if stage != pipeline.StagePublish {
				spinner = getSpinner(stageDescriptions[stage])
			}
		},
		OnSource: func(name string, count int) {
			if spinner != nil {
				spinner.Describe(color.CyanString(" Fetched %d headlines from %s", count, name))
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	result, err := p.Run(ctx)
	finish()
	if err != nil {
		return err
	}

	if result.Confirmation.DryRun {
		color.Yellow("✓ Dry run, nothing posted")
		return nil
	}
	color.Green("✓ Posted status %s", result.Confirmation.ID)
	return nil
}

func buildSources(config *cfgPkg.Config) ([]pipeline.Source, error) {
	timeout := time.Duration(config.HTTP.TimeoutSecs) * time.Second

	var sources []pipeline.Source
	for _, name := range config.Sources {
		var (
			fetcher  types.Fetcher
			err      error
			query    string
			pageSize int
			total    int
		)
		switch name {
		case cfgPkg.SourceFT:
			fetcher, err = ft.NewWithConfig(ft.ClientConfig{
				APIKey:    config.FT.APIKey,
				BaseURL:   config.FT.BaseURL,
				RateLimit: config.HTTP.RateLimit,
				Timeout:   timeout,
			})
			query, pageSize, total = config.FT.Query, config.FT.PageSize, config.FT.Total
		case cfgPkg.SourceNewsAPI:
			fetcher, err = newsapi.NewWithConfig(newsapi.ClientConfig{
				APIKey:        config.NewsAPI.APIKey,
				BaseURL:       config.NewsAPI.BaseURL,
				Language:      config.NewsAPI.Language,
				RateLimit:     config.HTTP.RateLimit,
				Timeout:       timeout,
				StripSuffixes: config.NewsAPI.StripSuffixes,
			})
			query, pageSize, total = config.NewsAPI.Query, config.NewsAPI.PageSize, config.NewsAPI.Total
		default:
			return nil, fmt.Errorf("unknown source: %s", name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s client: %w", name, err)
		}

		sources = append(sources, pipeline.Source{
			Name:     name,
			Fetcher:  fetcher,
			Query:    query,
			PageSize: pageSize,
			Total:    total,
		})
	}
	return sources, nil
}

func buildPublisher(config *cfgPkg.Config) (*twitter.Publisher, error) {
	publisherConfig := twitter.PublisherConfig{
		PlaceID:  config.Twitter.PlaceID,
		MaxChars: config.Twitter.MaxChars,
		DryRun:   config.Twitter.DryRun,
	}
	if config.Twitter.DryRun {
		return twitter.NewPublisher(nil, publisherConfig)
	}

	client, err := twitter.NewWithConfig(twitter.ClientConfig{
		ConsumerKey:          config.Twitter.ConsumerKey,
		ConsumerSecret:       config.Twitter.ConsumerSecret,
		AccessToken:          config.Twitter.AccessToken,
		AccessTokenSecret:    config.Twitter.AccessTokenSecret,
		BaseURL:              config.Twitter.BaseURL,
		Timeout:              time.Duration(config.HTTP.TimeoutSecs) * time.Second,
		DisableRateLimitWait: config.Twitter.DisableRateLimitWait,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize twitter client: %w", err)
	}
	return twitter.NewPublisher(client, publisherConfig)
}
