package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Surfaced to the caller, never retried.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or missing input,
	// such as a blank question. Surfaced to the caller, never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a fatal configuration problem,
	// such as chunk overlap >= chunk size or an embedding dimension
	// that does not match the vector index. Detected at startup or
	// first use, never retried.
	ErrInvalidConfig = errors.New("invalid configuration")

	// Provider errors. These classify transient failures of the
	// external capability providers. Ingestion retries them at batch
	// granularity; queries surface them immediately.

	// ErrEmbedding indicates the embedding provider failed.
	ErrEmbedding = errors.New("embedding provider failure")

	// ErrGeneration indicates the generation provider failed.
	ErrGeneration = errors.New("generation provider failure")

	// ErrIndex indicates the vector index failed.
	ErrIndex = errors.New("vector index failure")

	// ErrIngestion wraps the first unrecoverable failure that aborted
	// an ingestion run. Batches upserted before the failure remain in
	// the index; upsert is idempotent by ID so re-running is safe.
	ErrIngestion = errors.New("ingestion failed")
)
