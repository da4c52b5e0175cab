package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Distinct tests that sentinel errors are distinguishable.
func TestErrors_Distinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrInvalidConfig,
		ErrEmbedding,
		ErrGeneration,
		ErrIndex,
		ErrIngestion,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				assert.ErrorIs(t, a, b)
			} else {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

// TestErrors_Wrapping tests that wrapped sentinels survive errors.Is.
func TestErrors_Wrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("%w: %w", ErrIndex, cause)

	assert.ErrorIs(t, err, ErrIndex)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEmbedding)
}

// TestErrors_IngestionWrapsProviderFailure tests the ingestion error chain.
func TestErrors_IngestionWrapsProviderFailure(t *testing.T) {
	inner := fmt.Errorf("%w: status 503", ErrEmbedding)
	err := fmt.Errorf("%w: document %q: %w", ErrIngestion, "a.txt", inner)

	assert.ErrorIs(t, err, ErrIngestion)
	assert.ErrorIs(t, err, ErrEmbedding)
	assert.Contains(t, err.Error(), "a.txt")
}
