package websearch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Error reports a failed web-search call with the backend's HTTP status.
type Error struct {
	Status int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("web search failed: %d %s", e.Status, e.Reason)
}

// Client queries a SerpApi-compatible web-search backend.
// The credential is optional: a client without one is disabled and performs
// no network calls, which is a configuration branch rather than an error.
type Client struct {
	baseURL string
	apiKey  string
	engine  string
	client  *http.Client
}

// Config configures the web-search client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Engine    string
	Timeout   time.Duration
}

// NewClient creates a web-search client. A missing API key is allowed and
// yields a disabled client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://serpapi.com"
	}
	if cfg.Engine == "" {
		cfg.Engine = "google"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  os.Getenv(cfg.APIKeyEnv),
		engine:  cfg.Engine,
		client:  &http.Client{Timeout: t},
	}
}

// Enabled reports whether a search credential is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// Retrieve fetches at most limit web results formatted as "**title**: snippet"
// lines. Without a credential it returns an empty result and makes no call.
// Results past limit are dropped even if the backend returns more.
func (c *Client) Retrieve(query string, limit int) ([]string, error) {
	if c.apiKey == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}
	params := url.Values{}
	params.Set("engine", c.engine)
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Reason: reasonPhrase(resp)}
	}

	var out struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.OrganicResults) > limit {
		out.OrganicResults = out.OrganicResults[:limit]
	}
	results := make([]string, 0, len(out.OrganicResults))
	for _, r := range out.OrganicResults {
		// Missing title or snippet degrades to an empty field, never an error.
		results = append(results, fmt.Sprintf("**%s**: %s", r.Title, r.Snippet))
	}
	return results, nil
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
