package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/sagesearch/internal/logger"
	"github.com/custodia-labs/sagesearch/internal/normalisers/cleaner"
	"github.com/custodia-labs/sagesearch/internal/postprocessors/chunker"
	"github.com/custodia-labs/sagesearch/internal/retry"
)

// Ensure IngestionPipeline implements the interface.
var _ driving.Ingestor = (*IngestionPipeline)(nil)

// DefaultBatchSize is the number of chunks embedded and upserted together.
// It bounds the concurrent embedding calls per batch.
const DefaultBatchSize = 10

// IngestionPipeline coordinates the write path: clean, chunk, embed in
// concurrent batches, and upsert to the vector index.
type IngestionPipeline struct {
	cleaner  *cleaner.Cleaner
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docStore driven.DocumentStore // optional ledger, may be nil

	batchSize int
	policy    retry.Policy

	mu     sync.RWMutex
	status driving.IngestStatus
}

// IngestOption configures the ingestion pipeline.
type IngestOption func(*IngestionPipeline)

// WithBatchSize sets the embedding batch size.
func WithBatchSize(n int) IngestOption {
	return func(p *IngestionPipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithRetryPolicy sets the policy applied to batch upserts.
func WithRetryPolicy(policy retry.Policy) IngestOption {
	return func(p *IngestionPipeline) {
		p.policy = policy
	}
}

// WithDocumentStore attaches the ingestion ledger.
func WithDocumentStore(store driven.DocumentStore) IngestOption {
	return func(p *IngestionPipeline) {
		p.docStore = store
	}
}

// NewIngestionPipeline creates the pipeline. The document store is
// optional; everything else is required.
func NewIngestionPipeline(
	clean *cleaner.Cleaner,
	chunk *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	opts ...IngestOption,
) *IngestionPipeline {
	p := &IngestionPipeline{
		cleaner:   clean,
		chunker:   chunk,
		embedder:  embedder,
		index:     index,
		batchSize: DefaultBatchSize,
		policy:    retry.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest runs the write path for each document in order. A document
// aborts the run on unrecoverable failure; batches upserted before the
// abort stay in the index and re-running is safe because chunk IDs are
// deterministic and upsert replaces by ID.
func (p *IngestionPipeline) Ingest(ctx context.Context, docs []domain.Document) (int, error) {
	if err := p.checkDimensions(); err != nil {
		return 0, err
	}
	// The remote index reports its true dimensionality here; a
	// mismatched index must fail before any provider calls, never
	// at upsert time where it would be retried.
	if err := p.index.Ping(ctx); err != nil {
		return 0, fmt.Errorf("%w: index: %w", domain.ErrInvalidConfig, err)
	}

	p.setStatus(func(s *driving.IngestStatus) {
		*s = driving.IngestStatus{Running: true}
	})
	defer p.setStatus(func(s *driving.IngestStatus) { s.Running = false })

	logger.Section("Ingestion")
	total := 0

	for _, doc := range docs {
		p.setStatus(func(s *driving.IngestStatus) { s.Document = doc.Name })
		logger.Info("Processing %s", doc.Name)

		stored, err := p.ingestDocument(ctx, doc)
		total += stored
		if err != nil {
			return total, fmt.Errorf("%w: document %q: %w", domain.ErrIngestion, doc.Name, err)
		}

		p.setStatus(func(s *driving.IngestStatus) { s.DocumentsDone++ })
	}

	logger.Info("Ingestion complete: %d vectors stored", total)
	return total, nil
}

// Status reports progress of the current or most recent run.
func (p *IngestionPipeline) Status() driving.IngestStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// ingestDocument cleans, chunks and pushes one document batch by batch.
func (p *IngestionPipeline) ingestDocument(ctx context.Context, doc domain.Document) (int, error) {
	cleaned := p.cleaner.Clean(doc.RawText)
	chunks := p.chunker.Chunk(cleaned, doc.Name)
	if len(chunks) == 0 {
		logger.Warn("%s produced no chunks after cleaning", doc.Name)
		return 0, nil
	}
	logger.Debug("%s: %d chunks (size %d, overlap %d)",
		doc.Name, len(chunks), p.chunker.Size(), p.chunker.Overlap())

	stored := 0
	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if err := p.processBatch(ctx, batch); err != nil {
			return stored, fmt.Errorf("chunks [%d,%d): %w", start, end, err)
		}

		stored += len(batch)
		p.setStatus(func(s *driving.IngestStatus) { s.VectorsStored += len(batch) })
		logger.Info("  %s: %d/%d chunks", doc.Name, end, len(chunks))
	}

	if p.docStore != nil {
		if err := p.docStore.SaveDocument(ctx, doc.Name, chunks); err != nil {
			// The vectors are already in the index; the ledger
			// catches up on the next successful ingest.
			logger.Warn("Failed to record %s in document store: %v", doc.Name, err)
		}
	}

	return stored, nil
}

// processBatch embeds every chunk of the batch concurrently, then
// upserts the batch as one call under the retry policy. A single failed
// embedding fails the whole batch; partial batches are never upserted.
func (p *IngestionPipeline) processBatch(ctx context.Context, batch []domain.Chunk) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range batch {
		g.Go(func() error {
			// Each goroutine writes only its own chunk's vector slot.
			embedding, err := p.embedder.Embed(gctx, batch[i].Text)
			if err != nil {
				return fmt.Errorf("%w: chunk %s (%s #%d): %w",
					domain.ErrEmbedding, batch[i].ID, batch[i].Source, batch[i].Index, err)
			}
			batch[i].Embedding = embedding
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	records := make([]domain.IndexRecord, len(batch))
	for i, chunk := range batch {
		if dims := p.embedder.Dimensions(); dims > 0 && len(chunk.Embedding) != dims {
			return fmt.Errorf("%w: chunk %s embedding has %d dimensions, expected %d",
				domain.ErrInvalidConfig, chunk.ID, len(chunk.Embedding), dims)
		}
		records[i] = chunk.Record()
	}

	err := p.policy.Do(ctx, func(ctx context.Context) error {
		return p.index.Upsert(ctx, records)
	})
	if err != nil {
		return fmt.Errorf("%w: upsert: %w", domain.ErrIndex, err)
	}
	return nil
}

// checkDimensions fails fast when the embedding model and the vector
// index disagree on dimensionality.
func (p *IngestionPipeline) checkDimensions() error {
	embedDims := p.embedder.Dimensions()
	indexDims := p.index.Dimensions()
	if embedDims > 0 && indexDims > 0 && embedDims != indexDims {
		return fmt.Errorf("%w: embedding model %s produces %d dimensions but index expects %d",
			domain.ErrInvalidConfig, p.embedder.ModelName(), embedDims, indexDims)
	}
	return nil
}

func (p *IngestionPipeline) setStatus(update func(*driving.IngestStatus)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	update(&p.status)
}
