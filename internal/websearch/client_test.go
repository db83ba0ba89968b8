package websearch

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyEnv = "RAGAAS_TEST_SERP_KEY"

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	t.Setenv(testKeyEnv, "serp-key")
	return NewClient(Config{BaseURL: baseURL, APIKeyEnv: testKeyEnv, Timeout: 5 * time.Second})
}

func TestDisabledWithoutKey(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	t.Setenv(testKeyEnv, "")
	c := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: testKeyEnv})

	assert.False(t, c.Enabled())
	results, err := c.Retrieve("anything at all", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, calls.Load(), "disabled client must make no network calls")
}

func TestRetrieveFormatsAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "google", q.Get("engine"))
		assert.Equal(t, "photosynthesis", q.Get("q"))
		assert.Equal(t, "serp-key", q.Get("api_key"))
		assert.Equal(t, "2", q.Get("num"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"title": "Photosynthesis", "snippet": "How plants eat light."},
				{"title": "Chlorophyll", "snippet": "The green stuff."},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	assert.True(t, c.Enabled())

	results, err := c.Retrieve("photosynthesis", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"**Photosynthesis**: How plants eat light.",
		"**Chlorophyll**: The green stuff.",
	}, results)
}

func TestRetrieveTruncatesBeyondLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"title": "a", "snippet": "1"},
				{"title": "b", "snippet": "2"},
				{"title": "c", "snippet": "3"},
				{"title": "d", "snippet": "4"},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	results, err := c.Retrieve("q", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2, "backend overruns are truncated to the requested limit")
}

func TestRetrieveMissingFieldsDegrade(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"snippet": "no title here"},
				{"title": "no snippet here"},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	results, err := c.Retrieve("q", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"****: no title here",
		"**no snippet here**: ",
	}, results)
}

func TestRetrieveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Retrieve("q", 3)

	var searchErr *Error
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, http.StatusTooManyRequests, searchErr.Status)
}
