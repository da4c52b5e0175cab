package driving

import (
	"context"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
)

// AnswerService drives the query pipeline.
type AnswerService interface {
	// Answer resolves the persona, retrieves the most similar chunks
	// for the question and synthesises a grounded answer.
	//
	// Returns domain.ErrInvalidInput for a blank question,
	// domain.ErrNotFound for an unknown persona, and the provider
	// sentinels for downstream failures.
	Answer(ctx context.Context, personaID, question string) (*domain.Answer, error)
}
