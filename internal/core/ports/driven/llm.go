package driven

import "context"

// GenerationService produces a grounded answer from retrieved context.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini, gpt-4o)
//   - OpenAI-compatible inference servers (Ollama, LM Studio)
type GenerationService interface {
	// Generate synthesises an answer to question from the assembled
	// context, speaking in the voice described by systemPrompt.
	Generate(ctx context.Context, systemPrompt, question, context string) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
