package driven

import (
	"context"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
)

// PersonaStore supplies persona lookups. It is read-only reference data
// loaded once at process start from static configuration.
type PersonaStore interface {
	// List returns persona summaries without system prompts,
	// in configuration order.
	List(ctx context.Context) ([]domain.PersonaSummary, error)

	// Get returns the persona with the given ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Persona, error)
}
