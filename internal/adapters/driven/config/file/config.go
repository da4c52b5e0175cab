// Package file loads SageSearch configuration from a TOML file with
// environment variable overrides for secrets.
//
// Configuration lives at ~/.sagesearch/config.toml by default. API keys
// are never written to the file; they come from the environment
// (OPENAI_API_KEY, PINECONE_API_KEY, PINECONE_HOST), optionally via a
// .env file loaded by the CLI.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/postprocessors/chunker"
)

// Config is the full application configuration.
type Config struct {
	// DataDir is where the ingestion ledger lives.
	// Defaults to ~/.sagesearch/data.
	DataDir string `toml:"data_dir"`

	// PersonasFile is the path to the personas JSON file.
	// Defaults to ~/.sagesearch/personas.json.
	PersonasFile string `toml:"personas_file"`

	Embedding  EmbeddingConfig  `toml:"embedding"`
	Generation GenerationConfig `toml:"generation"`
	Index      IndexConfig      `toml:"index"`
	Storage    StorageConfig    `toml:"storage"`
	Ingest     IngestConfig     `toml:"ingest"`
	Query      QueryConfig      `toml:"query"`
	Server     ServerConfig     `toml:"server"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// Provider selects the backend: "openai" or "ollama".
	Provider          string  `toml:"provider"`
	APIKey            string  `toml:"-"`
	BaseURL           string  `toml:"base_url"`
	Model             string  `toml:"model"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// GenerationConfig configures the answer generation provider.
type GenerationConfig struct {
	// Provider selects the backend: "openai", "anthropic" or "ollama".
	Provider    string  `toml:"provider"`
	APIKey      string  `toml:"-"`
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// IndexConfig configures the vector index.
type IndexConfig struct {
	// Provider selects the index backend: "pinecone" or "memory".
	Provider  string `toml:"provider"`
	APIKey    string `toml:"-"`
	Host      string `toml:"host"`
	Namespace string `toml:"namespace"`
}

// StorageConfig configures the ingestion ledger.
type StorageConfig struct {
	// Provider selects the ledger backend: "sqlite" or "memory".
	// The memory ledger does not survive a restart.
	Provider string `toml:"provider"`
}

// IngestConfig configures the ingestion pipeline.
type IngestConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
	BatchSize    int `toml:"batch_size"`
}

// QueryConfig configures the query pipeline.
type QueryConfig struct {
	TopK int `toml:"top_k"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns a configuration with all defaults applied and no
// secrets set.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Generation: GenerationConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   1024,
		},
		Index: IndexConfig{
			Provider: "pinecone",
		},
		Storage: StorageConfig{
			Provider: "sqlite",
		},
		Ingest: IngestConfig{
			ChunkSize:    chunker.DefaultChunkSize,
			ChunkOverlap: chunker.DefaultOverlap,
			BatchSize:    10,
		},
		Query: QueryConfig{
			TopK: 3,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads configuration from the given TOML file, fills in defaults
// for unset fields, and applies environment overrides. A missing file
// is not an error; defaults are used.
// If path is empty, defaults to ~/.sagesearch/config.toml.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".sagesearch", "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing %s: %w", domain.ErrInvalidConfig, path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.applyHomeDefaults(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyHomeDefaults fills the home-relative paths when the config file
// does not set them. They apply regardless of which config file was
// loaded, so an explicit --config path still gets working defaults.
func (c *Config) applyHomeDefaults() error {
	if c.DataDir != "" && c.PersonasFile != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("getting home directory: %w", err)
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(home, ".sagesearch", "data")
	}
	if c.PersonasFile == "" {
		c.PersonasFile = filepath.Join(home, ".sagesearch", "personas.json")
	}
	return nil
}

// applyEnv overlays secrets and hosts from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.Embedding.Provider == "openai" {
			c.Embedding.APIKey = v
		}
		if c.Generation.Provider == "openai" {
			c.Generation.APIKey = v
		}
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.Generation.Provider == "anthropic" {
		c.Generation.APIKey = v
	}
	if v := os.Getenv("PINECONE_API_KEY"); v != "" {
		c.Index.APIKey = v
	}
	if v := os.Getenv("PINECONE_HOST"); v != "" {
		c.Index.Host = v
	}
}

// applyDefaults fills zero values left by a sparse config file.
// Model names are only defaulted for the openai providers; the other
// adapters carry their own defaults.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = def.Embedding.Provider
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = def.Generation.Provider
	}
	if c.Embedding.Model == "" && c.Embedding.Provider == "openai" {
		c.Embedding.Model = def.Embedding.Model
	}
	if c.Generation.Model == "" && c.Generation.Provider == "openai" {
		c.Generation.Model = def.Generation.Model
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = def.Generation.Temperature
	}
	if c.Generation.MaxTokens == 0 {
		c.Generation.MaxTokens = def.Generation.MaxTokens
	}
	if c.Index.Provider == "" {
		c.Index.Provider = def.Index.Provider
	}
	if c.Storage.Provider == "" {
		c.Storage.Provider = def.Storage.Provider
	}
	if c.Ingest.ChunkSize == 0 {
		c.Ingest.ChunkSize = def.Ingest.ChunkSize
	}
	if c.Ingest.ChunkOverlap == 0 {
		c.Ingest.ChunkOverlap = def.Ingest.ChunkOverlap
	}
	if c.Ingest.BatchSize == 0 {
		c.Ingest.BatchSize = def.Ingest.BatchSize
	}
	if c.Query.TopK == 0 {
		c.Query.TopK = def.Query.TopK
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
}

// Validate checks that the configuration is usable for provider-backed
// runs.
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case "openai":
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrInvalidConfig)
		}
	case "ollama":
		// Local provider, no credentials.
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidConfig, c.Embedding.Provider)
	}

	switch c.Generation.Provider {
	case "openai":
		if c.Generation.APIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrInvalidConfig)
		}
	case "anthropic":
		if c.Generation.APIKey == "" {
			return fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", domain.ErrInvalidConfig)
		}
	case "ollama":
		// Local provider, no credentials.
	default:
		return fmt.Errorf("%w: unknown generation provider %q", domain.ErrInvalidConfig, c.Generation.Provider)
	}

	if c.Index.Provider == "pinecone" {
		if c.Index.APIKey == "" {
			return fmt.Errorf("%w: PINECONE_API_KEY is not set", domain.ErrInvalidConfig)
		}
		if c.Index.Host == "" {
			return fmt.Errorf("%w: PINECONE_HOST is not set", domain.ErrInvalidConfig)
		}
	}
	switch c.Storage.Provider {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("%w: unknown storage provider %q", domain.ErrInvalidConfig, c.Storage.Provider)
	}
	if c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", domain.ErrInvalidConfig)
	}
	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size)", domain.ErrInvalidConfig)
	}
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive", domain.ErrInvalidConfig)
	}
	if c.Query.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidConfig)
	}
	return nil
}
