package service

import (
	"ragaas/internal/domain"
	"ragaas/internal/prompt"
)

// NoContextAnswer is returned when neither document retrieval nor web search
// produced any context. In that case no completion call is made at all.
const NoContextAnswer = "No relevant information found for your query."

// RAGService orchestrates the retrieval-augmented-generation pipeline:
// retrieve document chunks, optionally retrieve web results, compose a
// grounding prompt, generate the answer. Every entity it handles is scoped to
// a single call; nothing is cached across calls.
type RAGService struct {
	retriever domain.Retriever
	searcher  domain.WebSearcher
	completer domain.Completer
	ingestor  domain.Ingestor
	webLimit  int
}

// NewRAGService creates the pipeline with injected backend clients.
func NewRAGService(retriever domain.Retriever, searcher domain.WebSearcher, completer domain.Completer, ingestor domain.Ingestor, webLimit int) *RAGService {
	if webLimit <= 0 {
		webLimit = 3
	}
	return &RAGService{
		retriever: retriever,
		searcher:  searcher,
		completer: completer,
		ingestor:  ingestor,
		webLimit:  webLimit,
	}
}

// ProcessQuery runs the pipeline steps strictly in sequence. Errors from the
// sub-clients propagate unchanged; the only locally handled condition is the
// no-context case, which returns NoContextAnswer without invoking completion.
func (s *RAGService) ProcessQuery(query, scope string) (string, error) {
	chunks, err := s.retriever.Retrieve(query, scope)
	if err != nil {
		return "", err
	}

	var webResults []string
	if s.searcher.Enabled() {
		webResults, err = s.searcher.Retrieve(query, s.webLimit)
		if err != nil {
			return "", err
		}
	}

	if len(chunks) == 0 && len(webResults) == 0 {
		return NoContextAnswer, nil
	}

	systemPrompt := prompt.Compose(chunks, webResults)
	return s.completer.Complete(systemPrompt, query)
}

// IngestDocument submits a document URL for indexing and returns the backend's
// document identifier. Indexing itself finishes asynchronously on the backend;
// a query issued immediately afterwards may not see the document yet.
func (s *RAGService) IngestDocument(url, name, mode string) (string, error) {
	return s.ingestor.Ingest(domain.DocumentSource{URL: url, Name: name, Mode: mode})
}
