package driven

import "context"

// GenerationService produces answer text from a prompt.
// This is an optional service - when nil, answer generation is disabled
// and queries return raw retrieval results.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI / Anthropic hosted models
//   - LM Studio (local inference server)
type GenerationService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
