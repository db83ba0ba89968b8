package domain

// DocumentSource describes a document to submit to the retrieval backend for
// indexing. Name is optional and derived from the URL when empty.
type DocumentSource struct {
	URL  string
	Name string
	Mode string // indexing speed/accuracy trade-off, e.g. "fast" or "accurate"
}

// Retriever fetches ranked text fragments for a query, constrained to a scope.
// An empty result is a valid outcome, not an error.
type Retriever interface {
	Retrieve(query, scope string) ([]string, error)
}

// WebSearcher fetches up to limit formatted web result summaries.
// Enabled reports whether a search credential is configured; a disabled
// searcher makes no network calls.
type WebSearcher interface {
	Enabled() bool
	Retrieve(query string, limit int) ([]string, error)
}

// Completer generates the final answer from a grounding prompt and the user's query.
type Completer interface {
	Complete(systemPrompt, query string) (string, error)
}

// Ingestor submits a document source for indexing and returns the backend's
// document identifier. It does not wait for indexing to finish.
type Ingestor interface {
	Ingest(src DocumentSource) (string, error)
}

// Pipeline defines the operations exposed by the application core.
type Pipeline interface {
	ProcessQuery(query, scope string) (string, error)
	IngestDocument(url, name, mode string) (string, error)
}
