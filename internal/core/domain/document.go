package domain

import "time"

// Document is a raw source text handed to the ingestion pipeline.
// It is immutable and consumed once per ingestion run.
type Document struct {
	// Name identifies the source (typically the file name).
	// It becomes the Source field of every chunk cut from it.
	Name string

	// RawText is the unprocessed text content before cleaning.
	RawText string
}

// Chunk is a contiguous, possibly overlapping, character span of a
// cleaned source document. Chunks are the unit of embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk. It is deterministic
	// for a given (source, index) pair so re-ingesting a document
	// produces the same IDs and upserts replace instead of duplicate.
	ID string

	// Source is the name of the document this chunk was cut from.
	Source string

	// Index is the 0-based emission rank within the source.
	// It is the authoritative ordering key; the ID carries no order.
	Index int

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation, attached by the
	// ingestion pipeline after the chunk is cut. Nil until embedded.
	Embedding []float32
}

// ChunkMetadata is the payload stored alongside a vector in the index.
type ChunkMetadata struct {
	// Text is the chunk content, returned verbatim on retrieval.
	Text string `json:"text"`

	// Source is the originating document name.
	Source string `json:"source"`

	// ChunkIndex is the chunk's emission rank within its source.
	ChunkIndex int `json:"chunkIndex"`
}

// IndexRecord is what the vector index persists. Upsert is
// create-or-replace by ID.
type IndexRecord struct {
	// ID matches the chunk ID.
	ID string

	// Values is the embedding vector. Its length must match the
	// index dimensionality.
	Values []float32

	// Metadata is the retrievable chunk payload.
	Metadata ChunkMetadata
}

// Match is a transient projection of an IndexRecord returned by a
// similarity query.
type Match struct {
	// Text is the matched chunk content.
	Text string

	// Source is the originating document name.
	Source string

	// Score is the similarity score. Queries return matches in
	// descending score order.
	Score float64
}

// Record converts an embedded chunk into its index representation.
func (c Chunk) Record() IndexRecord {
	return IndexRecord{
		ID:     c.ID,
		Values: c.Embedding,
		Metadata: ChunkMetadata{
			Text:       c.Text,
			Source:     c.Source,
			ChunkIndex: c.Index,
		},
	}
}

// IngestedDocument is a ledger entry describing a fully ingested document.
type IngestedDocument struct {
	// Name is the document name.
	Name string `json:"name"`

	// ChunkCount is how many chunks the document produced.
	ChunkCount int `json:"chunkCount"`

	// IngestedAt is when the document finished ingesting.
	IngestedAt time.Time `json:"ingestedAt"`
}
