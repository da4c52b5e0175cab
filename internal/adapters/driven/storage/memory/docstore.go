// Package memory provides an in-memory implementation of the
// DocumentStore port for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory ingestion ledger.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.IngestedDocument
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.IngestedDocument),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument records an ingested document and its chunks, replacing
// any previous record for the same name.
func (s *DocumentStore) SaveDocument(_ context.Context, name string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[name] = domain.IngestedDocument{
		Name:       name,
		ChunkCount: len(chunks),
		IngestedAt: time.Now().UTC(),
	}
	s.chunks[name] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// ListDocuments returns all ingested documents sorted by name.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.IngestedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.IngestedDocument, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Name < docs[j].Name
	})
	return docs, nil
}

// GetChunks retrieves all chunks recorded for a document.
func (s *DocumentStore) GetChunks(_ context.Context, name string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks, ok := s.chunks[name]
	if !ok {
		return nil, fmt.Errorf("%w: document %q", domain.ErrNotFound, name)
	}
	return append([]domain.Chunk(nil), chunks...), nil
}

// Close releases resources.
func (s *DocumentStore) Close() error {
	return nil
}
