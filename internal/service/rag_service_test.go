package service

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragaas/internal/domain"
	"ragaas/internal/prompt"
	"ragaas/internal/retrieval"
)

type fakeRetriever struct {
	chunks []string
	err    error
	calls  int
}

func (f *fakeRetriever) Retrieve(query, scope string) ([]string, error) {
	f.calls++
	return f.chunks, f.err
}

type fakeSearcher struct {
	enabled bool
	results []string
	err     error
	calls   int
}

func (f *fakeSearcher) Enabled() bool { return f.enabled }

func (f *fakeSearcher) Retrieve(query string, limit int) ([]string, error) {
	f.calls++
	return f.results, f.err
}

type fakeCompleter struct {
	answer    string
	err       error
	calls     int
	gotSystem string
	gotQuery  string
}

func (f *fakeCompleter) Complete(systemPrompt, query string) (string, error) {
	f.calls++
	f.gotSystem = systemPrompt
	f.gotQuery = query
	return f.answer, f.err
}

type fakeIngestor struct {
	id  string
	err error
	got domain.DocumentSource
}

func (f *fakeIngestor) Ingest(src domain.DocumentSource) (string, error) {
	f.got = src
	return f.id, f.err
}

func TestProcessQueryGroundedAnswer(t *testing.T) {
	retriever := &fakeRetriever{chunks: []string{"Photosynthesis converts light into chemical energy."}}
	searcher := &fakeSearcher{enabled: false}
	completer := &fakeCompleter{answer: "It converts light into chemical energy."}
	svc := NewRAGService(retriever, searcher, completer, &fakeIngestor{}, 3)

	answer, err := svc.ProcessQuery("What is photosynthesis?", "tutorial")
	require.NoError(t, err)

	assert.Equal(t, "It converts light into chemical energy.", answer)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, "What is photosynthesis?", completer.gotQuery, "query travels as user content")
	assert.Equal(t, prompt.Compose(retriever.chunks, nil), completer.gotSystem, "composed prompt travels as system content")
	assert.Contains(t, completer.gotSystem, prompt.DocumentSectionLabel)
	assert.NotContains(t, completer.gotSystem, prompt.WebSectionLabel, "exactly one context section when web search is disabled")
	assert.Zero(t, searcher.calls, "disabled searcher is never attempted")
}

func TestProcessQuerySentinelOnNoContext(t *testing.T) {
	completer := &fakeCompleter{answer: "should never be seen"}
	svc := NewRAGService(&fakeRetriever{}, &fakeSearcher{enabled: true}, completer, &fakeIngestor{}, 3)

	answer, err := svc.ProcessQuery("anything", "tutorial")
	require.NoError(t, err)

	assert.Equal(t, NoContextAnswer, answer)
	assert.Zero(t, completer.calls, "generation is skipped entirely, never invoked with an empty prompt")
}

func TestProcessQueryWebResultsAloneSufficient(t *testing.T) {
	searcher := &fakeSearcher{enabled: true, results: []string{"**Title**: snippet"}}
	completer := &fakeCompleter{answer: "from the web"}
	svc := NewRAGService(&fakeRetriever{}, searcher, completer, &fakeIngestor{}, 3)

	answer, err := svc.ProcessQuery("q", "tutorial")
	require.NoError(t, err)
	assert.Equal(t, "from the web", answer)
	assert.Contains(t, completer.gotSystem, prompt.WebSectionLabel)
}

func TestProcessQueryRetrievalErrorStopsPipeline(t *testing.T) {
	retrErr := &retrieval.Error{Status: http.StatusInternalServerError, Reason: "Internal Server Error"}
	searcher := &fakeSearcher{enabled: true}
	completer := &fakeCompleter{}
	svc := NewRAGService(&fakeRetriever{err: retrErr}, searcher, completer, &fakeIngestor{}, 3)

	_, err := svc.ProcessQuery("q", "tutorial")

	var got *retrieval.Error
	require.True(t, errors.As(err, &got), "sub-client errors surface verbatim")
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Zero(t, searcher.calls, "no web search after a retrieval failure")
	assert.Zero(t, completer.calls, "no completion after a retrieval failure")
}

func TestProcessQueryWebSearchErrorPropagates(t *testing.T) {
	searchErr := errors.New("web search failed: 429 Too Many Requests")
	completer := &fakeCompleter{}
	svc := NewRAGService(&fakeRetriever{chunks: []string{"chunk"}}, &fakeSearcher{enabled: true, err: searchErr}, completer, &fakeIngestor{}, 3)

	_, err := svc.ProcessQuery("q", "tutorial")
	assert.ErrorIs(t, err, searchErr)
	assert.Zero(t, completer.calls)
}

func TestIngestDocumentPassesSource(t *testing.T) {
	ingestor := &fakeIngestor{id: "doc-42"}
	svc := NewRAGService(&fakeRetriever{}, &fakeSearcher{}, &fakeCompleter{}, ingestor, 3)

	id, err := svc.IngestDocument("https://example.com/files/report.pdf", "", "fast")
	require.NoError(t, err)

	assert.Equal(t, "doc-42", id)
	assert.Equal(t, domain.DocumentSource{URL: "https://example.com/files/report.pdf", Mode: "fast"}, ingestor.got)
}
