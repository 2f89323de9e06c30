package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/markovchina/pkg/headlines"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewWithConfig(ClientConfig{APIKey: "raw-key", BaseURL: url, RateLimit: 100})
	require.NoError(t, err)
	return c
}

func TestNewWithConfigRequiresKey(t *testing.T) {
	_, err := NewWithConfig(ClientConfig{BaseURL: "http://localhost"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/everything", r.URL.Path)
		assert.Equal(t, "raw-key", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "100", q.Get("pagesize"))
		assert.Equal(t, "china", q.Get("q"))
		assert.False(t, q.Has("page"))

		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"title": "China cuts rates - Reuters"},
				{"title": "Yuan slips as exports fall - Reuters.com"},
				{"title": "Markets rally"}
			]
		}`))
	}))
	defer server.Close()

	page, err := newTestClient(t, server.URL).Fetch(context.Background(), "china", 100, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"China cuts rates", "Yuan slips as exports fall", "Markets rally"}, page.Titles)
	assert.False(t, page.Exhausted)
}

func TestFetchPageFromOffset(t *testing.T) {
	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		w.Write([]byte(`{"status": "ok", "articles": [{"title": "x"}]}`))
	}))
	defer server.Close()

	_, err := headlines.Paginate(context.Background(), newTestClient(t, server.URL), "china", 20, 60)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "2", "3"}, pages)
}

func TestFetchNoArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "articles": []}`))
	}))
	defer server.Close()

	page, err := newTestClient(t, server.URL).Fetch(context.Background(), "china", 100, 0)
	require.NoError(t, err)
	assert.True(t, page.Exhausted)
}

func TestFetchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status": "error", "code": "apiKeyInvalid", "message": "Your API key is invalid."}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Fetch(context.Background(), "china", 100, 0)
	var statusErr *headlines.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "apiKeyInvalid")
}

func TestFetchErrorStatusField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "code": "rateLimited", "message": "slow down"}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Fetch(context.Background(), "china", 100, 0)
	assert.ErrorContains(t, err, "rateLimited")
}

func TestHeadlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "articles": [{"title": "A - Reuters"}, {"title": "- Reuters"}]}`))
	}))
	defer server.Close()

	titles, err := newTestClient(t, server.URL).Headlines(context.Background(), "china", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titles)
}

func TestStripAttributionCustomSuffixes(t *testing.T) {
	c, err := NewWithConfig(ClientConfig{APIKey: "k", StripSuffixes: []string{"| AP", "- Bloomberg"}})
	require.NoError(t, err)

	assert.Equal(t, "Talks resume", c.stripAttribution("Talks resume | AP News"))
	assert.Equal(t, "Talks resume", c.stripAttribution("Talks resume - Bloomberg"))
	assert.Equal(t, "Talks resume - Reuters", c.stripAttribution("Talks resume - Reuters"))
}
