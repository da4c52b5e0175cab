package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/sagesearch/internal/adapters/driven/config/file"
	ollamaembed "github.com/custodia-labs/sagesearch/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/sagesearch/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/sagesearch/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/sagesearch/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/sagesearch/internal/adapters/driven/llm/openai"
	personafile "github.com/custodia-labs/sagesearch/internal/adapters/driven/persona/file"
	storagemem "github.com/custodia-labs/sagesearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sagesearch/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/custodia-labs/sagesearch/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/sagesearch/internal/adapters/driven/vector/pinecone"
	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/sagesearch/internal/core/services"
	"github.com/custodia-labs/sagesearch/internal/logger"
	"github.com/custodia-labs/sagesearch/internal/normalisers/cleaner"
	"github.com/custodia-labs/sagesearch/internal/postprocessors/chunker"
)

// Services are package-level so commands can reach them and tests can
// substitute fakes. They are built lazily: commands that only print
// version information never touch provider credentials.
var (
	cfg configfile.Config

	answerService driving.AnswerService
	ingestService driving.Ingestor
	personaStore  driven.PersonaStore
	documentStore driven.DocumentStore

	embedder driven.EmbeddingService
	index    driven.VectorIndex
	llm      driven.GenerationService
)

// initApp loads configuration. Provider clients are constructed on
// first use by the command that needs them.
func initApp(_ *cobra.Command) error {
	loaded, err := configfile.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// closeApp releases provider connections.
func closeApp() {
	if embedder != nil {
		_ = embedder.Close()
	}
	if llm != nil {
		_ = llm.Close()
	}
	if index != nil {
		_ = index.Close()
	}
	if documentStore != nil {
		_ = documentStore.Close()
	}
}

func ensurePersonaStore() (driven.PersonaStore, error) {
	if personaStore != nil {
		return personaStore, nil
	}

	store, err := personafile.NewStore(cfg.PersonasFile)
	if err != nil {
		return nil, fmt.Errorf("loading personas: %w", err)
	}
	personaStore = store
	return personaStore, nil
}

func ensureDocumentStore() (driven.DocumentStore, error) {
	if documentStore != nil {
		return documentStore, nil
	}

	switch cfg.Storage.Provider {
	case "memory":
		logger.Debug("ingestion ledger in memory, not persisted")
		documentStore = storagemem.NewDocumentStore()
	case "sqlite":
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening ingestion ledger: %w", err)
		}
		logger.Debug("ingestion ledger at %s", store.Path())
		documentStore = store
	default:
		return nil, fmt.Errorf("%w: unknown storage provider %q", domain.ErrInvalidConfig, cfg.Storage.Provider)
	}
	return documentStore, nil
}

func ensureEmbedder() (driven.EmbeddingService, error) {
	if embedder != nil {
		return embedder, nil
	}

	switch cfg.Embedding.Provider {
	case "ollama":
		embedder = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	case "openai":
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            cfg.Embedding.APIKey,
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		embedder = svc
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidConfig, cfg.Embedding.Provider)
	}
	return embedder, nil
}

func ensureIndex() (driven.VectorIndex, error) {
	if index != nil {
		return index, nil
	}

	emb, err := ensureEmbedder()
	if err != nil {
		return nil, err
	}

	switch cfg.Index.Provider {
	case "memory":
		index = vectormem.NewIndex(emb.Dimensions())
	case "pinecone":
		idx, err := pinecone.NewIndex(pinecone.Config{
			APIKey:     cfg.Index.APIKey,
			Host:       cfg.Index.Host,
			Namespace:  cfg.Index.Namespace,
			Dimensions: emb.Dimensions(),
		})
		if err != nil {
			return nil, err
		}
		index = idx
	default:
		return nil, fmt.Errorf("%w: unknown index provider %q", domain.ErrInvalidConfig, cfg.Index.Provider)
	}
	return index, nil
}

func ensureLLM() (driven.GenerationService, error) {
	if llm != nil {
		return llm, nil
	}

	switch cfg.Generation.Provider {
	case "ollama":
		llm = ollamallm.NewGenerationService(ollamallm.Config{
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
		})
	case "anthropic":
		svc, err := anthropic.NewGenerationService(anthropic.Config{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		llm = svc
	case "openai":
		svc, err := openaillm.NewGenerationService(openaillm.Config{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		llm = svc
	default:
		return nil, fmt.Errorf("%w: unknown generation provider %q", domain.ErrInvalidConfig, cfg.Generation.Provider)
	}
	return llm, nil
}

func ensureIngestService() (driving.Ingestor, error) {
	if ingestService != nil {
		return ingestService, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	emb, err := ensureEmbedder()
	if err != nil {
		return nil, err
	}
	idx, err := ensureIndex()
	if err != nil {
		return nil, err
	}
	ledger, err := ensureDocumentStore()
	if err != nil {
		return nil, err
	}

	chunk, err := chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	ingestService = services.NewIngestionPipeline(
		cleaner.New(cleaner.DefaultRules()),
		chunk,
		emb,
		idx,
		services.WithBatchSize(cfg.Ingest.BatchSize),
		services.WithDocumentStore(ledger),
	)
	return ingestService, nil
}

func ensureAnswerService() (driving.AnswerService, error) {
	if answerService != nil {
		return answerService, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	personas, err := ensurePersonaStore()
	if err != nil {
		return nil, err
	}
	emb, err := ensureEmbedder()
	if err != nil {
		return nil, err
	}
	idx, err := ensureIndex()
	if err != nil {
		return nil, err
	}
	gen, err := ensureLLM()
	if err != nil {
		return nil, err
	}

	answerService = services.NewQueryPipeline(
		personas,
		emb,
		idx,
		gen,
		services.WithTopK(cfg.Query.TopK),
	)
	return answerService, nil
}
