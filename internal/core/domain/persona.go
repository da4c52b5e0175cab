package domain

// Persona is a named system-prompt profile that colours the generated
// answer's voice without changing retrieval. Personas are read-only
// reference data loaded once at process start.
type Persona struct {
	// ID is the stable identifier used in API requests.
	ID string `json:"id"`

	// Name is the human-readable display name.
	Name string `json:"name"`

	// Description is a one-line summary shown in persona listings.
	Description string `json:"description"`

	// SystemPrompt is the instruction block sent to the generation
	// provider. It is never exposed through listing endpoints.
	SystemPrompt string `json:"systemPrompt"`
}

// PersonaSummary is the public projection of a Persona, without the
// system prompt.
type PersonaSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Summary returns the prompt-free projection of the persona.
func (p Persona) Summary() PersonaSummary {
	return PersonaSummary{ID: p.ID, Name: p.Name, Description: p.Description}
}
