package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
// It derives a deterministic vector from the text so tests can verify
// that each chunk's vector is matched back to its own identity.
type mockEmbedder struct {
	mu       sync.Mutex
	dims     int
	calls    int
	failOn   string // text that triggers embedErr
	embedErr error
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.embedErr != nil && (m.failOn == "" || m.failOn == text) {
		return nil, m.embedErr
	}

	dims := m.dims
	if dims == 0 {
		dims = 4
	}
	vec := make([]float32, dims)
	vec[0] = float32(len(text))
	for i, r := range text {
		vec[(i+1)%dims] += float32(r) / 1000
	}
	return vec, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 4
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockIndex implements driven.VectorIndex for testing. It records
// upserted batches and can fail a configurable number of upserts.
type mockIndex struct {
	mu          sync.Mutex
	dims        int
	records     map[string]domain.IndexRecord
	batches     [][]domain.IndexRecord
	failUpserts int // fail this many upsert calls before succeeding
	upsertErr   error
	pingErr     error
	queryHits   []domain.Match
	queryErr    error
	queryCalls  int
	lastTopK    int
}

var _ driven.VectorIndex = (*mockIndex)(nil)

func newMockIndex() *mockIndex {
	return &mockIndex{records: make(map[string]domain.IndexRecord)}
}

func (m *mockIndex) Upsert(_ context.Context, records []domain.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failUpserts > 0 {
		m.failUpserts--
		if m.upsertErr != nil {
			return m.upsertErr
		}
		return fmt.Errorf("index unavailable")
	}

	batch := make([]domain.IndexRecord, len(records))
	copy(batch, records)
	m.batches = append(m.batches, batch)
	for _, r := range records {
		m.records[r.ID] = r
	}
	return nil
}

func (m *mockIndex) Query(_ context.Context, _ []float32, topK int) ([]domain.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queryCalls++
	m.lastTopK = topK
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if topK > len(m.queryHits) {
		return m.queryHits, nil
	}
	return m.queryHits[:topK], nil
}

func (m *mockIndex) Dimensions() int { return m.dims }

func (m *mockIndex) Ping(_ context.Context) error { return m.pingErr }

func (m *mockIndex) Close() error { return nil }

func (m *mockIndex) recordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// mockPersonaStore implements driven.PersonaStore for testing.
type mockPersonaStore struct {
	personas map[string]domain.Persona
}

var _ driven.PersonaStore = (*mockPersonaStore)(nil)

func (m *mockPersonaStore) List(_ context.Context) ([]domain.PersonaSummary, error) {
	summaries := make([]domain.PersonaSummary, 0, len(m.personas))
	for _, p := range m.personas {
		summaries = append(summaries, p.Summary())
	}
	return summaries, nil
}

func (m *mockPersonaStore) Get(_ context.Context, id string) (*domain.Persona, error) {
	p, ok := m.personas[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// mockLLM implements driven.GenerationService for testing.
type mockLLM struct {
	answer      string
	generateErr error
	calls       int

	lastSystemPrompt string
	lastQuestion     string
	lastContext      string
}

var _ driven.GenerationService = (*mockLLM)(nil)

func (m *mockLLM) Generate(_ context.Context, systemPrompt, question, contextText string) (string, error) {
	m.calls++
	m.lastSystemPrompt = systemPrompt
	m.lastQuestion = question
	m.lastContext = contextText
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.answer, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockDocStore implements driven.DocumentStore for testing.
type mockDocStore struct {
	mu      sync.Mutex
	saved   map[string][]domain.Chunk
	saveErr error
}

var _ driven.DocumentStore = (*mockDocStore)(nil)

func newMockDocStore() *mockDocStore {
	return &mockDocStore{saved: make(map[string][]domain.Chunk)}
}

func (m *mockDocStore) SaveDocument(_ context.Context, name string, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[name] = chunks
	return nil
}

func (m *mockDocStore) ListDocuments(_ context.Context) ([]domain.IngestedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]domain.IngestedDocument, 0, len(m.saved))
	for name, chunks := range m.saved {
		docs = append(docs, domain.IngestedDocument{Name: name, ChunkCount: len(chunks)})
	}
	return docs, nil
}

func (m *mockDocStore) GetChunks(_ context.Context, name string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chunks, ok := m.saved[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return chunks, nil
}

func (m *mockDocStore) Close() error { return nil }
