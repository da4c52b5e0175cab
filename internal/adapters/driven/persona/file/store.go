// Package file provides a persona store backed by a JSON file on disk.
//
// The file holds an array of persona objects. It is read once at
// construction; List preserves file order so the first entry can serve
// as a stable default.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.PersonaStore = (*Store)(nil)

// Store serves personas loaded from a JSON file.
type Store struct {
	personas []domain.Persona
	byID     map[string]*domain.Persona
}

type personaRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"systemPrompt"`
}

// NewStore loads personas from the given JSON file.
func NewStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas file: %w", err)
	}

	var records []personaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parse personas file %s: %w", domain.ErrInvalidConfig, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: personas file %s defines no personas", domain.ErrInvalidConfig, path)
	}

	s := &Store{
		personas: make([]domain.Persona, 0, len(records)),
		byID:     make(map[string]*domain.Persona, len(records)),
	}
	for _, r := range records {
		if r.ID == "" || r.SystemPrompt == "" {
			return nil, fmt.Errorf("%w: persona %q must have an id and a system prompt",
				domain.ErrInvalidConfig, r.Name)
		}
		if _, exists := s.byID[r.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate persona id %q", domain.ErrInvalidConfig, r.ID)
		}
		s.personas = append(s.personas, domain.Persona{
			ID:           r.ID,
			Name:         r.Name,
			Description:  r.Description,
			SystemPrompt: r.SystemPrompt,
		})
		s.byID[r.ID] = &s.personas[len(s.personas)-1]
	}
	return s, nil
}

// List returns persona summaries in file order. System prompts are
// deliberately not included.
func (s *Store) List(_ context.Context) ([]domain.PersonaSummary, error) {
	summaries := make([]domain.PersonaSummary, len(s.personas))
	for i, p := range s.personas {
		summaries[i] = p.Summary()
	}
	return summaries, nil
}

// Get returns the persona with the given ID, including its system
// prompt.
func (s *Store) Get(_ context.Context, id string) (*domain.Persona, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: persona %q", domain.ErrNotFound, id)
	}
	out := *p
	return &out, nil
}
