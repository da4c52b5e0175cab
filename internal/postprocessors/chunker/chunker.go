// Package chunker provides fixed-size overlapping text chunking.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// idNamespace is the UUIDv5 namespace for chunk IDs. Deriving the ID
// from (source, index) keeps upserts idempotent across re-ingestion.
var idNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Chunker splits cleaned text into fixed-size overlapping windows.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. The overlap must be smaller than the chunk
// size, otherwise the cursor could never advance; that is rejected as
// a configuration error rather than clamped.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidConfig, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk materialises the ordered chunk sequence for one source.
// Each chunk spans [cursor, cursor+size) capped at the text length and
// the cursor advances by size-overlap; emission stops once a chunk
// reaches the end of the text, so a source shorter than the chunk size
// yields exactly one chunk. Index equals emission rank and resets per
// source.
//
// The stop condition is deliberate: once a window reaches the end of
// the text, no trailing window holding only the final overlap is
// emitted — that tail is already contained in the last chunk, and a
// chunk that duplicates existing text would only dilute retrieval.
// 2500 characters at size 1000 / overlap 200 therefore cut into 3
// chunks, not 4.
func (c *Chunker) Chunk(text, source string) []domain.Chunk {
	if text == "" {
		return nil
	}

	length := len(text)
	step := c.size - c.overlap
	chunks := make([]domain.Chunk, 0, (length+step-1)/step)

	for start := 0; start < length; start += step {
		end := start + c.size
		if end > length {
			end = length
		}

		index := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:     ChunkID(source, index),
			Source: source,
			Index:  index,
			Text:   text[start:end],
		})

		if end == length {
			break
		}
	}

	return chunks
}

// Size returns the configured chunk size in characters.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }

// ChunkID returns the deterministic record identity for a chunk of
// source at the given emission rank. The ID carries no ordering
// semantics; Index is the ordering key.
func ChunkID(source string, index int) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s:%d", source, index))).String()
}
