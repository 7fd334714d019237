package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/embedding/hashing"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/storage/memory"
	vecmemory "github.com/08nikhil/freshservice-Application/internal/adapters/driven/vectorindex/memory"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
	"github.com/08nikhil/freshservice-Application/internal/postprocessors/chunker"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// It fails the first failFirst calls, then delegates to vectors or returns embedding.
type mockEmbeddingService struct {
	embedding []float32
	vectors   func(text string) []float32
	embedErr  error
	failFirst int32
	calls     atomic.Int32
	model     string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	n := m.calls.Add(1)
	if m.embedErr != nil && (m.failFirst == 0 || n <= m.failFirst) {
		return nil, m.embedErr
	}
	if m.vectors != nil {
		return m.vectors(text), nil
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return m.embedErr
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	generate func(ctx context.Context, prompt string) (string, error)
	err      error
	calls    atomic.Int32

	mu         sync.Mutex
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.lastPrompt = prompt
	m.lastOpts = opts
	m.mu.Unlock()
	if m.generate != nil {
		return m.generate(ctx, prompt)
	}
	if m.err != nil {
		return "", m.err
	}
	return "generated answer", nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return m.err
}

func (m *mockLLMService) Close() error {
	return nil
}

func (m *mockLLMService) prompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// echoLLM answers with the first line of the context it was given.
func echoLLM() *mockLLMService {
	return &mockLLMService{
		generate: func(_ context.Context, prompt string) (string, error) {
			for _, line := range strings.Split(prompt, "\n") {
				if strings.HasPrefix(line, "[1]") {
					return "According to " + strings.TrimPrefix(line, "[1] ") + ", see the excerpt.", nil
				}
			}
			return prompt, nil
		},
	}
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// --- Test helpers ---

// fastRetry keeps retry tests quick while still exercising the backoff path.
func fastRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

type testDoc struct {
	id, title, url, content string
}

// helpCenter is a small documentation corpus used across tests.
var helpCenter = []testDoc{
	{
		id: "tickets", title: "Create a ticket", url: "https://api.freshservice.com/#create_ticket",
		content: "Create a ticket\n\nTo create a ticket, send a POST request to /api/v2/tickets with the ticket " +
			"subject, description, requester email and priority. The new ticket is returned with its id.",
	},
	{
		id: "auth", title: "Authentication", url: "https://api.freshservice.com/#authentication",
		content: "Authentication\n\nEvery API request is authenticated with your API key using HTTP basic auth. " +
			"Rate limits apply per account and per minute.",
	},
	{
		id: "users", title: "Requesters", url: "https://api.freshservice.com/#requesters",
		content: "Requesters\n\nCreate a new requester by sending a POST to /api/v2/requesters with a primary email. " +
			"Agents are listed with GET /api/v2/agents.",
	},
	{
		id: "sla", title: "SLA policies", url: "https://api.freshservice.com/#sla_policies",
		content: "SLA policies\n\nSLA policies define response and resolution targets for each priority. " +
			"Configure them under Admin > SLA Policies.",
	},
}

// engine wires real in-process adapters around the services under test.
type engine struct {
	docs      *memory.DocumentStore
	index     *vecmemory.Index
	embedder  driven.EmbeddingService
	ingest    *IngestService
	retriever *RetrieverService
}

func newEngine(t *testing.T, embedder driven.EmbeddingService) *engine {
	t.Helper()
	if embedder == nil {
		embedder = hashing.New(hashing.DefaultDimensions)
	}
	settings := domain.DefaultAppSettings()
	e := &engine{
		docs:     memory.NewDocumentStore(),
		index:    vecmemory.New(),
		embedder: embedder,
	}
	e.ingest = NewIngestService(chunker.New(), embedder, e.index, e.docs, fastRetry())
	e.retriever = NewRetrieverService(embedder, e.index, e.docs, settings.Retrieval, fastRetry())
	return e
}

func (e *engine) load(t *testing.T, docs ...testDoc) {
	t.Helper()
	for _, d := range docs {
		_, err := e.ingest.Ingest(context.Background(), &domain.Document{
			ID: d.id, Title: d.title, URL: d.url, Content: d.content,
		})
		require.NoError(t, err)
	}
}

// candidate builds a ranked candidate for assembler tests.
func candidate(docID string, position int, fused float64, content string) domain.Candidate {
	return domain.Candidate{
		Chunk: domain.Chunk{
			ID:         domain.ChunkID(docID, position),
			DocumentID: docID,
			Position:   position,
			Content:    content,
		},
		DocumentTitle: "Title " + docID,
		DocumentURL:   "https://docs.example.com/" + docID,
		Similarity:    fused,
		Fused:         fused,
	}
}
