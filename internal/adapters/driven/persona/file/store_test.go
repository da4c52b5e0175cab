package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
)

func writePersonas(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personas.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const samplePersonas = `[
  {
    "id": "kalam",
    "name": "Dr. Kalam",
    "description": "A thoughtful scientist and teacher",
    "systemPrompt": "You are Dr. Kalam. Answer with warmth and scientific rigour."
  },
  {
    "id": "historian",
    "name": "The Historian",
    "description": "A meticulous chronicler of the past",
    "systemPrompt": "You are a historian. Ground every answer in the provided sources."
  }
]`

func TestNewStore(t *testing.T) {
	t.Run("loads personas from file", func(t *testing.T) {
		store, err := NewStore(writePersonas(t, samplePersonas))
		require.NoError(t, err)

		summaries, err := store.List(context.Background())
		require.NoError(t, err)
		require.Len(t, summaries, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewStore(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := NewStore(writePersonas(t, `{"not": "an array"}`))
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("empty persona list", func(t *testing.T) {
		_, err := NewStore(writePersonas(t, `[]`))
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("persona without id", func(t *testing.T) {
		_, err := NewStore(writePersonas(t, `[{"name":"X","systemPrompt":"p"}]`))
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("persona without system prompt", func(t *testing.T) {
		_, err := NewStore(writePersonas(t, `[{"id":"x","name":"X"}]`))
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("duplicate persona ids", func(t *testing.T) {
		_, err := NewStore(writePersonas(t, `[
			{"id":"x","systemPrompt":"a"},
			{"id":"x","systemPrompt":"b"}
		]`))
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestStore_List(t *testing.T) {
	store, err := NewStore(writePersonas(t, samplePersonas))
	require.NoError(t, err)

	summaries, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// File order is preserved.
	assert.Equal(t, "kalam", summaries[0].ID)
	assert.Equal(t, "Dr. Kalam", summaries[0].Name)
	assert.Equal(t, "A thoughtful scientist and teacher", summaries[0].Description)
	assert.Equal(t, "historian", summaries[1].ID)
}

func TestStore_Get(t *testing.T) {
	store, err := NewStore(writePersonas(t, samplePersonas))
	require.NoError(t, err)

	t.Run("returns persona with system prompt", func(t *testing.T) {
		p, err := store.Get(context.Background(), "kalam")
		require.NoError(t, err)
		assert.Equal(t, "Dr. Kalam", p.Name)
		assert.Contains(t, p.SystemPrompt, "scientific rigour")
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Get(context.Background(), "pirate")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
