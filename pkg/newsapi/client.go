// Package newsapi queries the News API "everything" endpoint for headlines.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xhad/markovchina/internal/models"
	"github.com/xhad/markovchina/pkg/headlines"
	"golang.org/x/time/rate"
)

const everythingPath = "/v2/everything"

var ErrMissingAPIKey = errors.New("newsapi: NEWS_API_KEY is not set")

type ClientConfig struct {
	APIKey    string
	BaseURL   string
	Language  string
	RateLimit float64 // requests per second
	Timeout   time.Duration
	// StripSuffixes are syndication markers; a title is cut at the first
	// occurrence of any of them.
	StripSuffixes []string
}

type Client struct {
	config  ClientConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://newsapi.org"
	}
	if config.Language == "" {
		config.Language = "en"
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.StripSuffixes == nil {
		config.StripSuffixes = []string{"- Reuters"}
	}

	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// Fetch returns one page of headlines. The API pages by number, so offset is
// converted to a 1-based page; the first page is requested without one.
func (c *Client) Fetch(ctx context.Context, query string, pageSize, offset int) (models.Page, error) {
	params := url.Values{}
	params.Set("language", c.config.Language)
	params.Set("pagesize", strconv.Itoa(pageSize))
	params.Set("q", query)
	if offset > 0 && pageSize > 0 {
		params.Set("page", strconv.Itoa(offset/pageSize+1))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return models.Page{}, err
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.config.BaseURL, everythingPath, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.Page{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Page{}, err
	}
	defer resp.Body.Close()

	if err := headlines.CheckResponse(resp); err != nil {
		return models.Page{}, err
	}

	var decoded everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.Page{}, fmt.Errorf("failed to decode everything response: %w", err)
	}
	if decoded.Status == "error" {
		return models.Page{}, fmt.Errorf("newsapi error %s: %s", decoded.Code, decoded.Message)
	}

	raw := make([]string, 0, len(decoded.Articles))
	for _, article := range decoded.Articles {
		raw = append(raw, c.stripAttribution(article.Title))
	}
	return models.Page{
		Titles:    headlines.CleanAll(raw),
		Exhausted: len(decoded.Articles) == 0,
	}, nil
}

// Headlines fetches the first page for query, as the standalone lister does.
func (c *Client) Headlines(ctx context.Context, query string, pageSize int) ([]string, error) {
	page, err := c.Fetch(ctx, query, pageSize, 0)
	if err != nil {
		return nil, err
	}
	return page.Titles, nil
}

func (c *Client) stripAttribution(title string) string {
	for _, suffix := range c.config.StripSuffixes {
		if suffix == "" {
			continue
		}
		if i := strings.Index(title, suffix); i >= 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}
