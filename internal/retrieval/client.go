package retrieval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"ragaas/internal/domain"
)

// defaultDocumentName is used when no name is given and none can be derived
// from the document URL.
const defaultDocumentName = "document"

// Error reports a failed retrieval call with the backend's HTTP status.
type Error struct {
	Status int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("retrieval failed: %d %s", e.Status, e.Reason)
}

// IngestError reports a failed document submission with the backend's HTTP status.
type IngestError struct {
	Status int
	Reason string
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("document upload failed: %d %s", e.Status, e.Reason)
}

// Client is a minimal REST client to the document-retrieval backend.
// It serves both the query path (Retrieve) and the upload path (Ingest);
// the two share one credential.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// Config configures the retrieval client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
}

// NewClient creates a retrieval client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.ragie.ai"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		client:  &http.Client{Timeout: t},
	}, nil
}

// Retrieve fetches the ranked chunk texts matching the query within the scope.
// The result keeps the backend's ordering; an empty slice means no matches.
func (c *Client) Retrieve(query, scope string) ([]string, error) {
	body := map[string]any{
		"query": query,
		"filters": map[string]any{
			"scope": scope,
		},
	}
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/retrievals", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Reason: reasonPhrase(resp)}
	}

	var out struct {
		ScoredChunks []struct {
			Text string `json:"text"`
		} `json:"scored_chunks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(out.ScoredChunks))
	for _, chunk := range out.ScoredChunks {
		texts = append(texts, chunk.Text)
	}
	return texts, nil
}

// Ingest submits a document URL for indexing and returns the backend's
// document identifier. The backend indexes asynchronously; this returns as
// soon as the submission is acknowledged, with no way to tell when indexing
// has finished.
func (c *Client) Ingest(src domain.DocumentSource) (string, error) {
	name := src.Name
	if name == "" {
		name = deriveName(src.URL)
	}
	mode := src.Mode
	if mode == "" {
		mode = "fast"
	}
	body := map[string]string{
		"mode": mode,
		"name": name,
		"url":  src.URL,
	}
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/documents/url", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", &IngestError{Status: resp.StatusCode, Reason: reasonPhrase(resp)}
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// deriveName takes the final path segment of the URL, falling back to a fixed
// default when the segment is empty or the URL cannot be parsed.
func deriveName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultDocumentName
	}
	segments := strings.Split(u.Path, "/")
	last := segments[len(segments)-1]
	if last == "" {
		return defaultDocumentName
	}
	return last
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
