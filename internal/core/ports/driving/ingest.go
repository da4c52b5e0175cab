package driving

import (
	"context"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
)

// Ingestor drives the ingestion pipeline.
type Ingestor interface {
	// Ingest cleans, chunks, embeds and upserts the documents.
	// It returns the number of vectors stored. On failure the count
	// reflects the batches that landed before the abort; re-running
	// is safe because upsert is idempotent by chunk ID.
	Ingest(ctx context.Context, docs []domain.Document) (int, error)

	// Status reports progress of the current or most recent run.
	Status() IngestStatus
}

// IngestStatus describes ingestion progress.
type IngestStatus struct {
	// Running reports whether an ingestion run is in flight.
	Running bool

	// Document is the name of the document currently being processed.
	Document string

	// VectorsStored is the monotonically growing count of persisted
	// vectors, updated after each batch upsert.
	VectorsStored int

	// DocumentsDone is the number of documents fully ingested.
	DocumentsDone int
}
