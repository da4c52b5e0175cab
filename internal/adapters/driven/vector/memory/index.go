// Package memory provides an in-memory vector index for tests and
// local experiments. Records are held in a map keyed by ID and queried
// by brute-force cosine similarity.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory vector index.
type Index struct {
	mu         sync.RWMutex
	records    map[string]domain.IndexRecord
	dimensions int
}

// NewIndex creates an empty index with the given dimensionality.
func NewIndex(dimensions int) *Index {
	return &Index{
		records:    make(map[string]domain.IndexRecord),
		dimensions: dimensions,
	}
}

// Upsert creates or replaces records by ID.
func (x *Index) Upsert(_ context.Context, records []domain.IndexRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, r := range records {
		if x.dimensions > 0 && len(r.Values) != x.dimensions {
			return fmt.Errorf("memory index: record %s has %d dimensions, want %d",
				r.ID, len(r.Values), x.dimensions)
		}
		x.records[r.ID] = r
	}
	return nil
}

// Query returns up to topK records by descending cosine similarity.
func (x *Index) Query(_ context.Context, queryVector []float32, topK int) ([]domain.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("memory index: topK must be positive")
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	matches := make([]domain.Match, 0, len(x.records))
	for _, r := range x.records {
		matches = append(matches, domain.Match{
			Text:   r.Metadata.Text,
			Source: r.Metadata.Source,
			Score:  cosine(queryVector, r.Values),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Dimensions returns the configured index dimensionality.
func (x *Index) Dimensions() int {
	return x.dimensions
}

// Len returns the number of stored records.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.records)
}

// Ping always succeeds.
func (x *Index) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
