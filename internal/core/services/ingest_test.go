package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/normalisers/cleaner"
	"github.com/custodia-labs/sagesearch/internal/postprocessors/chunker"
	"github.com/custodia-labs/sagesearch/internal/retry"
)

func newTestPipeline(t *testing.T, embedder *mockEmbedder, index *mockIndex, opts ...IngestOption) *IngestionPipeline {
	t.Helper()
	chk, err := chunker.New(1000, 200)
	require.NoError(t, err)
	opts = append([]IngestOption{
		WithRetryPolicy(retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}),
	}, opts...)
	return NewIngestionPipeline(cleaner.New(cleaner.Rules{}), chk, embedder, index, opts...)
}

func TestIngest_EndToEnd(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	p := newTestPipeline(t, embedder, index)

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("X", 2500)}}
	count, err := p.Ingest(context.Background(), docs)

	require.NoError(t, err)
	// 2500 chars at size 1000 / overlap 200 cut into 3 chunks.
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, index.recordCount())
	assert.Equal(t, 3, embedder.callCount())

	// Metadata preserves chunk identity and order.
	indices := make(map[int]bool)
	for _, r := range index.records {
		assert.Equal(t, "a.txt", r.Metadata.Source)
		assert.NotEmpty(t, r.Values)
		indices[r.Metadata.ChunkIndex] = true
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, indices)
}

func TestIngest_VectorsMatchTheirOwnChunk(t *testing.T) {
	// The mock embedder encodes the text length in vec[0]; out-of-order
	// completion must never swap a vector with a sibling's.
	embedder := &mockEmbedder{}
	index := newMockIndex()
	p := newTestPipeline(t, embedder, index, WithBatchSize(4))

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("Z", 3700)}}
	_, err := p.Ingest(context.Background(), docs)
	require.NoError(t, err)

	for _, r := range index.records {
		assert.Equal(t, float32(len(r.Metadata.Text)), r.Values[0],
			"chunk %d carries a sibling's vector", r.Metadata.ChunkIndex)
	}
}

func TestIngest_BatchesUpsertedSeparately(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	p := newTestPipeline(t, embedder, index, WithBatchSize(2))

	// 3700 chars -> 5 chunks -> batches of 2, 2, 1.
	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("Q", 3700)}}
	count, err := p.Ingest(context.Background(), docs)

	require.NoError(t, err)
	assert.Equal(t, 5, count)
	require.Len(t, index.batches, 3)
	assert.Len(t, index.batches[0], 2)
	assert.Len(t, index.batches[1], 2)
	assert.Len(t, index.batches[2], 1)
}

func TestIngest_EmbeddingFailureFailsWholeBatch(t *testing.T) {
	embedder := &mockEmbedder{embedErr: errors.New("provider down")}
	index := newMockIndex()
	p := newTestPipeline(t, embedder, index)

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("X", 1500)}}
	count, err := p.Ingest(context.Background(), docs)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIngestion)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
	assert.Equal(t, 0, count)
	// Partial batches are never upserted.
	assert.Equal(t, 0, index.recordCount())
}

func TestIngest_UpsertRetriedThenSucceeds(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	index.failUpserts = 2
	p := newTestPipeline(t, embedder, index)

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("X", 500)}}
	count, err := p.Ingest(context.Background(), docs)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, index.recordCount())
}

func TestIngest_UpsertRetryExhaustionAbortsDocument(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	index.failUpserts = 100
	p := newTestPipeline(t, embedder, index)

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("X", 500)}}
	count, err := p.Ingest(context.Background(), docs)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIngestion)
	assert.ErrorIs(t, err, domain.ErrIndex)
	assert.Equal(t, 0, count)
}

func TestIngest_EarlierBatchesSurviveLaterFailure(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	p := newTestPipeline(t, embedder, index, WithBatchSize(1))

	// Fail embedding only for the second document's text.
	failDoc := domain.Document{Name: "b.txt", RawText: strings.Repeat("B", 400)}
	embedder.embedErr = errors.New("provider down")
	embedder.failOn = failDoc.RawText

	docs := []domain.Document{
		{Name: "a.txt", RawText: strings.Repeat("A", 400)},
		failDoc,
	}
	count, err := p.Ingest(context.Background(), docs)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIngestion)
	assert.Contains(t, err.Error(), "b.txt")
	// a.txt landed and stays.
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, index.recordCount())
}

func TestIngest_ReIngestIsIdempotent(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	p := newTestPipeline(t, embedder, index)

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("X", 2500)}}

	_, err := p.Ingest(context.Background(), docs)
	require.NoError(t, err)
	firstIDs := make([]string, 0, len(index.records))
	for id := range index.records {
		firstIDs = append(firstIDs, id)
	}

	_, err = p.Ingest(context.Background(), docs)
	require.NoError(t, err)

	// Same final record set: same IDs, no duplicates.
	assert.Equal(t, len(firstIDs), index.recordCount())
	for _, id := range firstIDs {
		assert.Contains(t, index.records, id)
	}
}

func TestIngest_DimensionMismatchFailsFast(t *testing.T) {
	embedder := &mockEmbedder{dims: 8}
	index := newMockIndex()
	index.dims = 1536
	p := newTestPipeline(t, embedder, index)

	docs := []domain.Document{{Name: "a.txt", RawText: "text"}}
	count, err := p.Ingest(context.Background(), docs)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, embedder.callCount())
}

func TestIngest_IndexPingMismatchFailsBeforeProviderCalls(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	index.pingErr = errors.New("index dimension 768 does not match configured 1536")
	p := newTestPipeline(t, embedder, index)

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("X", 2500)}}
	count, err := p.Ingest(context.Background(), docs)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Equal(t, 0, count)
	// Configuration errors are fatal: no embedding calls, no upsert
	// attempts, no retries.
	assert.Equal(t, 0, embedder.callCount())
	assert.Empty(t, index.batches)
}

func TestIngest_EmptyDocumentProducesNothing(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	p := newTestPipeline(t, embedder, index)

	docs := []domain.Document{{Name: "empty.txt", RawText: "\n\n\n"}}
	count, err := p.Ingest(context.Background(), docs)

	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngest_RecordsLedger(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	store := newMockDocStore()
	p := newTestPipeline(t, embedder, index, WithDocumentStore(store))

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("X", 2500)}}
	_, err := p.Ingest(context.Background(), docs)
	require.NoError(t, err)

	chunks, err := store.GetChunks(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func TestIngest_LedgerFailureDoesNotAbort(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	store := newMockDocStore()
	store.saveErr = errors.New("disk full")
	p := newTestPipeline(t, embedder, index, WithDocumentStore(store))

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("X", 500)}}
	count, err := p.Ingest(context.Background(), docs)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngest_StatusProgress(t *testing.T) {
	embedder := &mockEmbedder{}
	index := newMockIndex()
	p := newTestPipeline(t, embedder, index)

	assert.False(t, p.Status().Running)

	docs := []domain.Document{{Name: "a.txt", RawText: strings.Repeat("X", 2500)}}
	_, err := p.Ingest(context.Background(), docs)
	require.NoError(t, err)

	status := p.Status()
	assert.False(t, status.Running)
	assert.Equal(t, 3, status.VectorsStored)
	assert.Equal(t, 1, status.DocumentsDone)
}
