// Package pinecone provides a vector index adapter using the Pinecone
// REST API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for the Pinecone index client.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// Host is the index host URL, e.g.
	// https://sagesearch-xxxx.svc.us-east-1-aws.pinecone.io (required).
	Host string

	// Namespace partitions records within the index. Optional.
	Namespace string

	// Dimensions is the index dimensionality used for fail-fast
	// validation against the embedding model. Zero skips the check.
	Dimensions int

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Index is a minimal REST client to a Pinecone serverless index.
type Index struct {
	client     *http.Client
	host       string
	apiKey     string
	namespace  string
	dimensions int
}

// vector is the Pinecone wire representation of an index record.
type vector struct {
	ID       string               `json:"id"`
	Values   []float32            `json:"values"`
	Metadata domain.ChunkMetadata `json:"metadata"`
}

// NewIndex creates a new Pinecone index client.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("pinecone: index host is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		host:       cfg.Host,
		apiKey:     cfg.APIKey,
		namespace:  cfg.Namespace,
		dimensions: cfg.Dimensions,
	}, nil
}

// Upsert creates or replaces records by ID in one call.
func (x *Index) Upsert(ctx context.Context, records []domain.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}

	vectors := make([]vector, len(records))
	for i, r := range records {
		vectors[i] = vector{ID: r.ID, Values: r.Values, Metadata: r.Metadata}
	}

	body := map[string]any{"vectors": vectors}
	if x.namespace != "" {
		body["namespace"] = x.namespace
	}

	var resp struct {
		UpsertedCount int `json:"upsertedCount"`
	}
	if err := x.post(ctx, "/vectors/upsert", body, &resp); err != nil {
		return err
	}
	if resp.UpsertedCount != len(records) {
		return fmt.Errorf("pinecone: upserted %d of %d vectors", resp.UpsertedCount, len(records))
	}
	return nil
}

// Query returns the topK most similar records in descending score order.
func (x *Index) Query(ctx context.Context, queryVector []float32, topK int) ([]domain.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("pinecone: topK must be positive")
	}

	body := map[string]any{
		"vector":          queryVector,
		"topK":            topK,
		"includeMetadata": true,
	}
	if x.namespace != "" {
		body["namespace"] = x.namespace
	}

	var resp struct {
		Matches []struct {
			ID       string               `json:"id"`
			Score    float64              `json:"score"`
			Metadata domain.ChunkMetadata `json:"metadata"`
		} `json:"matches"`
	}
	if err := x.post(ctx, "/query", body, &resp); err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, domain.Match{
			Text:   m.Metadata.Text,
			Source: m.Metadata.Source,
			Score:  m.Score,
		})
	}
	return matches, nil
}

// Dimensions returns the configured index dimensionality.
func (x *Index) Dimensions() int {
	return x.dimensions
}

// Ping validates connectivity by fetching index statistics.
func (x *Index) Ping(ctx context.Context) error {
	var stats struct {
		Dimension int `json:"dimension"`
	}
	if err := x.post(ctx, "/describe_index_stats", map[string]any{}, &stats); err != nil {
		return err
	}
	if x.dimensions > 0 && stats.Dimension > 0 && stats.Dimension != x.dimensions {
		return fmt.Errorf("pinecone: index dimension %d does not match configured %d",
			stats.Dimension, x.dimensions)
	}
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	x.client.CloseIdleConnections()
	return nil
}

func (x *Index) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.host+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", x.apiKey)

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pinecone %s failed (status %d): %s", path, resp.StatusCode, string(payload))
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
