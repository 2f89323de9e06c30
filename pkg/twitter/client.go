// Package twitter posts status updates through the v1.1 statuses API and
// composes the update for a generated sentence.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/xhad/markovchina/internal/models"
)

const updatePath = "/1.1/statuses/update.json"

var ErrMissingCredentials = errors.New("twitter: API_KEY, API_SECRET, ACCESS_TOKEN and ACCESS_TOKEN_SECRET are required")

// APIError is a non-2xx response from the statuses API.
type APIError struct {
	StatusCode int           `json:"-"`
	Errors     []ErrorDetail `json:"errors"`
}

type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("twitter: status %d", e.StatusCode)
	}
	msgs := make([]string, len(e.Errors))
	for i, d := range e.Errors {
		msgs[i] = fmt.Sprintf("%d %s", d.Code, d.Message)
	}
	return fmt.Sprintf("twitter: status %d: %s", e.StatusCode, strings.Join(msgs, "; "))
}

type ClientConfig struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string

	BaseURL string
	Timeout time.Duration
	// DisableRateLimitWait makes a 429 fail immediately instead of waiting
	// for the rate-limit window to reset and resubmitting once.
	DisableRateLimitWait bool
	MaxRateLimitWait     time.Duration
}

type Client struct {
	config ClientConfig
	client *http.Client
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.ConsumerKey == "" || config.ConsumerSecret == "" ||
		config.AccessToken == "" || config.AccessTokenSecret == "" {
		return nil, ErrMissingCredentials
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.twitter.com"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRateLimitWait == 0 {
		config.MaxRateLimitWait = 15 * time.Minute
	}

	oauthConfig := oauth1.NewConfig(config.ConsumerKey, config.ConsumerSecret)
	token := oauth1.NewToken(config.AccessToken, config.AccessTokenSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = config.Timeout

	return &Client{
		config: config,
		client: httpClient,
		now:    time.Now,
		sleep:  sleepContext,
	}, nil
}

type statusResponse struct {
	IDStr     string `json:"id_str"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// UpdateStatus posts status. A rate-limited post is resubmitted once after
// the advertised reset time unless waiting is disabled.
func (c *Client) UpdateStatus(ctx context.Context, status models.Status) (*models.PostConfirmation, error) {
	form := url.Values{}
	form.Set("status", status.Text)
	if status.PlaceID != "" {
		form.Set("place_id", status.PlaceID)
	}

	resp, err := c.post(ctx, form)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusTooManyRequests && !c.config.DisableRateLimitWait {
		wait := c.resetDelay(resp.Header)
		resp.Body.Close()
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
		if resp, err = c.post(ctx, form); err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	var decoded statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	confirmation := &models.PostConfirmation{ID: decoded.IDStr, Text: decoded.Text}
	if t, err := time.Parse(time.RubyDate, decoded.CreatedAt); err == nil {
		confirmation.CreatedAt = t
	}
	return confirmation, nil
}

func (c *Client) post(ctx context.Context, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+updatePath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post status: %w", err)
	}
	return resp, nil
}

// resetDelay reads x-rate-limit-reset (unix seconds), clamped to
// [0, MaxRateLimitWait]. A missing header waits the full maximum.
func (c *Client) resetDelay(h http.Header) time.Duration {
	reset, err := strconv.ParseInt(h.Get("x-rate-limit-reset"), 10, 64)
	if err != nil {
		return c.config.MaxRateLimitWait
	}
	wait := time.Unix(reset, 0).Sub(c.now())
	if wait < 0 {
		return 0
	}
	return min(wait, c.config.MaxRateLimitWait)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(body, apiErr)
	return apiErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
