package driven

import (
	"context"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
)

// DocumentStore is a local ledger of ingested documents and their chunks.
// Backed by SQLite for metadata storage. It exists for observability:
// the vector index remains the retrieval source of truth.
type DocumentStore interface {
	// SaveDocument records a fully ingested document and its chunks,
	// replacing any previous entry with the same name.
	SaveDocument(ctx context.Context, name string, chunks []domain.Chunk) error

	// ListDocuments returns ledger entries ordered by name.
	ListDocuments(ctx context.Context) ([]domain.IngestedDocument, error)

	// GetChunks returns the recorded chunks for a document in emission
	// order, or domain.ErrNotFound if the document was never ingested.
	GetChunks(ctx context.Context, name string) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}
