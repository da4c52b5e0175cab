package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, s.ModelName())
	assert.Equal(t, DefaultDimensions, s.Dimensions())
}

func TestEmbeddingService_Embed(t *testing.T) {
	t.Run("embeds text", func(t *testing.T) {
		var gotBody embedRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/embeddings", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.1, 0.2, 0.3}})
		}))
		defer server.Close()

		s := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 3})

		vec, err := s.Embed(context.Background(), "call me ishmael")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
		assert.Equal(t, "call me ishmael", gotBody.Prompt)
		assert.Equal(t, DefaultModel, gotBody.Model)
	})

	t.Run("API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("model not found"))
		}))
		defer server.Close()

		s := NewEmbeddingService(Config{BaseURL: server.URL})

		_, err := s.Embed(context.Background(), "text")
		assert.ErrorContains(t, err, "status 500")
	})
}

func TestEmbeddingService_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/tags", r.URL.Path)
			w.Write([]byte(`{"models":[]}`))
		}))
		defer server.Close()

		s := NewEmbeddingService(Config{BaseURL: server.URL})
		assert.NoError(t, s.Ping(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		s := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"})
		assert.Error(t, s.Ping(context.Background()))
	})
}
