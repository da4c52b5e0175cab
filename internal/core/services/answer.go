package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/sagesearch/internal/logger"
)

// Ensure QueryPipeline implements the interface.
var _ driving.AnswerService = (*QueryPipeline)(nil)

// DefaultTopK is the default number of chunks retrieved per question.
const DefaultTopK = 3

// QueryPipeline coordinates the read path: embed the question, retrieve
// the most similar chunks, assemble context and generate a grounded
// answer in the persona's voice.
//
// There is no caching and no query-time retry: every call re-embeds the
// question and re-queries the index, and provider failures surface
// immediately to keep latency bounded.
type QueryPipeline struct {
	personas driven.PersonaStore
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	llm      driven.GenerationService
	topK     int
}

// QueryOption configures the query pipeline.
type QueryOption func(*QueryPipeline)

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) QueryOption {
	return func(p *QueryPipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// NewQueryPipeline creates the pipeline. All collaborators are required.
func NewQueryPipeline(
	personas driven.PersonaStore,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	llm driven.GenerationService,
	opts ...QueryOption,
) *QueryPipeline {
	p := &QueryPipeline{
		personas: personas,
		embedder: embedder,
		index:    index,
		llm:      llm,
		topK:     DefaultTopK,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Answer runs the read path for one question.
func (p *QueryPipeline) Answer(ctx context.Context, personaID, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question must not be blank", domain.ErrInvalidInput)
	}
	if personaID == "" {
		return nil, fmt.Errorf("%w: personaId is required", domain.ErrInvalidInput)
	}

	persona, err := p.personas.Get(ctx, personaID)
	if err != nil {
		return nil, fmt.Errorf("persona %q: %w", personaID, err)
	}

	logger.Section("Query")
	logger.Debug("Persona: %s, top-K: %d", persona.ID, p.topK)

	vector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", domain.ErrEmbedding, err)
	}

	matches, err := p.index.Query(ctx, vector, p.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrIndex, err)
	}
	logger.Debug("Retrieved %d matches", len(matches))

	contextText, items, sources := assembleContext(matches)

	answer, err := p.llm.Generate(ctx, persona.SystemPrompt, question, contextText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	return &domain.Answer{
		Text:    answer,
		Context: items,
		Sources: sources,
	}, nil
}

// assembleContext concatenates match texts in descending score order
// separated by paragraph boundaries, and collects the distinct sources
// in order of first appearance.
func assembleContext(matches []domain.Match) (string, []domain.ContextItem, []string) {
	texts := make([]string, 0, len(matches))
	items := make([]domain.ContextItem, 0, len(matches))
	sources := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))

	for _, m := range matches {
		texts = append(texts, m.Text)
		items = append(items, domain.ContextItem{Text: m.Text, Source: m.Source})
		if !seen[m.Source] {
			seen[m.Source] = true
			sources = append(sources, m.Source)
		}
	}

	return strings.Join(texts, "\n\n"), items, sources
}
