package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SourceFT      = "ft"
	SourceNewsAPI = "newsapi"
)

type Config struct {
	Sources []string `yaml:"sources"`

	HTTP    HTTPConfig    `yaml:"http"`
	FT      FTConfig      `yaml:"ft"`
	NewsAPI NewsAPIConfig `yaml:"newsapi"`
	Model   ModelConfig   `yaml:"model"`
	Sampler SamplerConfig `yaml:"sampler"`
	Twitter TwitterConfig `yaml:"twitter"`
}

type HTTPConfig struct {
	RateLimit   float64 `yaml:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

type FTConfig struct {
	APIKey   string `yaml:"-"`
	BaseURL  string `yaml:"base_url"`
	Query    string `yaml:"query"`
	PageSize int    `yaml:"page_size"`
	Total    int    `yaml:"total"`
}

type NewsAPIConfig struct {
	APIKey        string   `yaml:"-"`
	BaseURL       string   `yaml:"base_url"`
	Query         string   `yaml:"query"`
	Language      string   `yaml:"language"`
	PageSize      int      `yaml:"page_size"`
	Total         int      `yaml:"total"`
	StripSuffixes []string `yaml:"strip_suffixes"`
}

type ModelConfig struct {
	StateSize        int     `yaml:"state_size"`
	WordSplitPattern string  `yaml:"word_split_pattern"`
	KeepMalformed    bool    `yaml:"keep_malformed"`
	Tries            int     `yaml:"tries"`
	MaxOverlapRatio  float64 `yaml:"max_overlap_ratio"`
	MaxOverlapTotal  int     `yaml:"max_overlap_total"`
}

type SamplerConfig struct {
	MaxChars    int    `yaml:"max_chars"`
	MinChars    int    `yaml:"min_chars"`
	MaxAttempts int    `yaml:"max_attempts"`
	Seed        uint64 `yaml:"seed"`
}

type TwitterConfig struct {
	ConsumerKey       string `yaml:"-"`
	ConsumerSecret    string `yaml:"-"`
	AccessToken       string `yaml:"-"`
	AccessTokenSecret string `yaml:"-"`

	BaseURL              string `yaml:"base_url"`
	PlaceID              string `yaml:"place_id"`
	MaxChars             int    `yaml:"max_chars"`
	DisableRateLimitWait bool   `yaml:"disable_rate_limit_wait"`
	DryRun               bool   `yaml:"dry_run"`
}

// LoadConfig reads the YAML file at path (or the first default location that
// exists), then layers defaults and environment variables on top. A .env file
// in the working directory is loaded before the environment is read.
func LoadConfig(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/markovchina/config.yaml"),
			"/etc/markovchina/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := mergeWithEnv(&config); err != nil {
		return nil, err
	}
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	if err := mergeWithEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error loading %s: %w", path, err)
}

// Enabled reports whether the named headline source is part of the run.
func (c *Config) Enabled(source string) bool {
	for _, s := range c.Sources {
		if s == source {
			return true
		}
	}
	return false
}

func applyDefaults(config *Config) {
	if len(config.Sources) == 0 {
		config.Sources = []string{SourceFT, SourceNewsAPI}
	}

	if config.HTTP.RateLimit == 0 {
		config.HTTP.RateLimit = 2.0
	}
	if config.HTTP.TimeoutSecs == 0 {
		config.HTTP.TimeoutSecs = 30
	}

	if config.FT.BaseURL == "" {
		config.FT.BaseURL = "https://api.ft.com"
	}
	if config.FT.Query == "" {
		config.FT.Query = "regions:China"
	}
	if config.FT.PageSize == 0 {
		config.FT.PageSize = 100
	}
	if config.FT.Total == 0 {
		config.FT.Total = 400
	}

	if config.NewsAPI.BaseURL == "" {
		config.NewsAPI.BaseURL = "https://newsapi.org"
	}
	if config.NewsAPI.Query == "" {
		config.NewsAPI.Query = "china"
	}
	if config.NewsAPI.Language == "" {
		config.NewsAPI.Language = "en"
	}
	if config.NewsAPI.PageSize == 0 {
		config.NewsAPI.PageSize = 100
	}
	if config.NewsAPI.Total == 0 {
		config.NewsAPI.Total = config.NewsAPI.PageSize
	}
	if config.NewsAPI.StripSuffixes == nil {
		config.NewsAPI.StripSuffixes = []string{"- Reuters"}
	}

	if config.Model.StateSize == 0 {
		config.Model.StateSize = 1
	}
	if config.Model.WordSplitPattern == "" {
		config.Model.WordSplitPattern = `\s+`
	}
	if config.Model.Tries == 0 {
		config.Model.Tries = 10
	}
	if config.Model.MaxOverlapTotal == 0 {
		config.Model.MaxOverlapTotal = 15
	}

	if config.Sampler.MaxChars == 0 {
		config.Sampler.MaxChars = 280
	}
	if config.Sampler.MaxAttempts == 0 {
		config.Sampler.MaxAttempts = 1000
	}

	if config.Twitter.BaseURL == "" {
		config.Twitter.BaseURL = "https://api.twitter.com"
	}
	if config.Twitter.PlaceID == "" {
		config.Twitter.PlaceID = "4797714c95971ac1" // PRC
	}
	if config.Twitter.MaxChars == 0 {
		config.Twitter.MaxChars = 280
	}
}

func mergeWithEnv(config *Config) error {
	if key := os.Getenv("FT_API_KEY"); key != "" {
		config.FT.APIKey = key
	}
	if baseURL := os.Getenv("FT_API_URL"); baseURL != "" {
		config.FT.BaseURL = baseURL
	}
	if key := os.Getenv("NEWS_API_KEY"); key != "" {
		config.NewsAPI.APIKey = key
	}
	if baseURL := os.Getenv("NEWS_API_URL"); baseURL != "" {
		config.NewsAPI.BaseURL = baseURL
	}

	if key := os.Getenv("API_KEY"); key != "" {
		config.Twitter.ConsumerKey = key
	}
	if secret := os.Getenv("API_SECRET"); secret != "" {
		config.Twitter.ConsumerSecret = secret
	}
	if token := os.Getenv("ACCESS_TOKEN"); token != "" {
		config.Twitter.AccessToken = token
	}
	if secret := os.Getenv("ACCESS_TOKEN_SECRET"); secret != "" {
		config.Twitter.AccessTokenSecret = secret
	}
	if baseURL := os.Getenv("TWITTER_API_URL"); baseURL != "" {
		config.Twitter.BaseURL = baseURL
	}

	if dryRun := os.Getenv("MARKOVCHINA_DRY_RUN"); dryRun != "" {
		v, err := strconv.ParseBool(dryRun)
		if err != nil {
			return fmt.Errorf("invalid MARKOVCHINA_DRY_RUN %q: %w", dryRun, err)
		}
		config.Twitter.DryRun = v
	}
	return nil
}
