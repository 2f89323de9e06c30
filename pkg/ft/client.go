// Package ft queries the FT content search API for article headlines.
package ft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/xhad/markovchina/internal/models"
	"github.com/xhad/markovchina/pkg/headlines"
	"golang.org/x/time/rate"
)

const searchPath = "/content/search/v1"

var ErrMissingAPIKey = errors.New("ft: FT_API_KEY is not set")

type ClientConfig struct {
	APIKey    string
	BaseURL   string
	RateLimit float64 // requests per second
	Timeout   time.Duration
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
		config.BaseURL = "https://api.ft.com"
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

type searchRequest struct {
	QueryString   string        `json:"queryString"`
	QueryContext  queryContext  `json:"queryContext"`
	ResultContext resultContext `json:"resultContext"`
}

type queryContext struct {
	Curations []string `json:"curations"`
}

type resultContext struct {
	MaxResults int      `json:"maxResults"`
	Offset     int      `json:"offset"`
	Aspects    []string `json:"aspects"`
}

type searchResponse struct {
	Results []struct {
		IndexCount int `json:"indexCount"`
		Results    []struct {
			Title *struct {
				Title string `json:"title"`
			} `json:"title"`
		} `json:"results"`
	} `json:"results"`
}

// search posts one query to the search endpoint and returns the decoded
// response.
func (c *Client) search(ctx context.Context, query string, maxResults, offset int) (*searchResponse, error) {
	payload := searchRequest{
		QueryString:  query,
		QueryContext: queryContext{Curations: []string{"ARTICLES"}},
		ResultContext: resultContext{
			MaxResults: maxResults,
			Offset:     offset,
			Aspects:    []string{"title"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search payload: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := headlines.CheckResponse(resp); err != nil {
		return nil, err
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &decoded, nil
}

// Fetch returns the titles of one page of search results. Results without a
// title are skipped; an index count of zero marks the page as exhausted.
func (c *Client) Fetch(ctx context.Context, query string, pageSize, offset int) (models.Page, error) {
	resp, err := c.search(ctx, query, pageSize, offset)
	if err != nil {
		return models.Page{}, err
	}
	return titles(resp), nil
}

func titles(resp *searchResponse) models.Page {
	if len(resp.Results) == 0 {
		return models.Page{Exhausted: true}
	}

	group := resp.Results[0]
	page := models.Page{Exhausted: group.IndexCount == 0}
	var raw []string
	for _, result := range group.Results {
		if result.Title == nil {
			continue
		}
		raw = append(raw, result.Title.Title)
	}
	page.Titles = headlines.CleanAll(raw)
	return page
}
