package driven

import (
	"context"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
)

// VectorIndex stores embedded chunks and answers similarity queries.
// The index provider is responsible for its own concurrency control;
// a query running concurrently with an in-flight upsert may or may not
// observe the new records.
type VectorIndex interface {
	// Upsert creates or replaces records by ID. It is atomic per call
	// from the pipeline's perspective: the batch either lands or the
	// call errors.
	Upsert(ctx context.Context, records []domain.IndexRecord) error

	// Query returns the topK records most similar to the vector,
	// in descending score order.
	Query(ctx context.Context, vector []float32, topK int) ([]domain.Match, error)

	// Dimensions returns the configured index dimensionality,
	// or 0 when the index discovers it from the first upsert.
	Dimensions() int

	// Ping validates the index is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
