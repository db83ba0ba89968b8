package completion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const anthropicVersion = "2023-06-01"

// Error reports a failed completion call with the backend's HTTP status.
type Error struct {
	Status int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("completion failed: %d %s", e.Status, e.Reason)
}

// Client sends grounding prompts to an Anthropic-style messages endpoint.
// The model identifier and maximum output length are fixed at construction.
// Failed calls are not retried here; retry policy belongs to the caller.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

// Config configures the completion client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// NewClient creates a completion client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-sonnet-20240229"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	t := cfg.Timeout
	if t == 0 {
		t = 10 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    key,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    &http.Client{Timeout: t},
	}, nil
}

// Complete sends the grounding prompt as system content and the query as a
// user message, returning the first text segment of the response.
func (c *Client) Complete(systemPrompt, query string) (string, error) {
	body := map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": query},
		},
	}
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", &Error{Status: resp.StatusCode, Reason: reasonPhrase(resp)}
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	for _, segment := range out.Content {
		if segment.Type == "" || segment.Type == "text" {
			return segment.Text, nil
		}
	}
	return "", errors.New("no text content returned")
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
