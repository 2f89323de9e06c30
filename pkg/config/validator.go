package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate reports every problem in the configuration. Credentials are only
// required for the sources that are enabled, and the social-media
// credentials are not required for a dry run.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if len(c.Sources) == 0 {
		errors = append(errors, ValidationError{
			Field:   "sources",
			Message: "at least one headline source is required",
		})
	}
	for _, s := range c.Sources {
		if s != SourceFT && s != SourceNewsAPI {
			errors = append(errors, ValidationError{
				Field:   "sources",
				Message: fmt.Sprintf("unknown source: %s", s),
			})
		}
	}

	if c.HTTP.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "http.rate_limit",
			Message: "rate_limit must be positive",
		})
	}
	if c.HTTP.TimeoutSecs < 1 {
		errors = append(errors, ValidationError{
			Field:   "http.timeout_secs",
			Message: "timeout_secs must be positive",
		})
	}

	if c.Enabled(SourceFT) {
		if c.FT.APIKey == "" {
			errors = append(errors, ValidationError{
				Field:   "ft.api_key",
				Message: "FT_API_KEY is required",
			})
		}
		errors = append(errors, validateURL("ft.base_url", c.FT.BaseURL)...)
		errors = append(errors, validatePaging("ft", c.FT.PageSize, c.FT.Total)...)
	}

	if c.Enabled(SourceNewsAPI) {
		if c.NewsAPI.APIKey == "" {
			errors = append(errors, ValidationError{
				Field:   "newsapi.api_key",
				Message: "NEWS_API_KEY is required",
			})
		}
		errors = append(errors, validateURL("newsapi.base_url", c.NewsAPI.BaseURL)...)
		errors = append(errors, validatePaging("newsapi", c.NewsAPI.PageSize, c.NewsAPI.Total)...)
	}

	// Validate Model config
	if c.Model.StateSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "model.state_size",
			Message: "state_size must be positive",
		})
	}
	if _, err := regexp.Compile(c.Model.WordSplitPattern); err != nil {
		errors = append(errors, ValidationError{
			Field:   "model.word_split_pattern",
			Message: fmt.Sprintf("invalid pattern: %v", err),
		})
	}
	if c.Model.Tries < 1 {
		errors = append(errors, ValidationError{
			Field:   "model.tries",
			Message: "tries must be positive",
		})
	}
	if c.Model.MaxOverlapRatio < 0 || c.Model.MaxOverlapRatio > 1 {
		errors = append(errors, ValidationError{
			Field:   "model.max_overlap_ratio",
			Message: "max_overlap_ratio must be between 0 and 1",
		})
	}

	// Validate Sampler config
	if c.Sampler.MaxChars < 1 || c.Sampler.MaxChars > c.Twitter.MaxChars {
		errors = append(errors, ValidationError{
			Field:   "sampler.max_chars",
			Message: fmt.Sprintf("max_chars must be between 1 and %d", c.Twitter.MaxChars),
		})
	}
	if c.Sampler.MinChars < 0 || c.Sampler.MinChars > c.Sampler.MaxChars {
		errors = append(errors, ValidationError{
			Field:   "sampler.min_chars",
			Message: "min_chars must be non-negative and not above max_chars",
		})
	}
	if c.Sampler.MaxAttempts < 1 {
		errors = append(errors, ValidationError{
			Field:   "sampler.max_attempts",
			Message: "max_attempts must be positive",
		})
	}

	// Validate Twitter config
	if c.Twitter.MaxChars < 1 || c.Twitter.MaxChars > 280 {
		errors = append(errors, ValidationError{
			Field:   "twitter.max_chars",
			Message: "max_chars must be between 1 and 280",
		})
	}
	errors = append(errors, validateURL("twitter.base_url", c.Twitter.BaseURL)...)
	if !c.Twitter.DryRun {
		creds := []struct{ field, env, value string }{
			{"twitter.consumer_key", "API_KEY", c.Twitter.ConsumerKey},
			{"twitter.consumer_secret", "API_SECRET", c.Twitter.ConsumerSecret},
			{"twitter.access_token", "ACCESS_TOKEN", c.Twitter.AccessToken},
			{"twitter.access_token_secret", "ACCESS_TOKEN_SECRET", c.Twitter.AccessTokenSecret},
		}
		for _, cred := range creds {
			if cred.value == "" {
				errors = append(errors, ValidationError{
					Field:   cred.field,
					Message: cred.env + " is required",
				})
			}
		}
	}

	return errors
}

// Join folds validation errors into a single error, or nil when there are none.
func Join(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}

func validateURL(field, raw string) []ValidationError {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("invalid URL: %q", raw),
		}}
	}
	return nil
}

func validatePaging(section string, pageSize, total int) []ValidationError {
	var errors []ValidationError
	if pageSize < 1 {
		errors = append(errors, ValidationError{
			Field:   section + ".page_size",
			Message: "page_size must be positive",
		})
	}
	if total < 1 {
		errors = append(errors, ValidationError{
			Field:   section + ".total",
			Message: "total must be positive",
		})
	}
	return errors
}
