// README: Text-generation contract used by the planner (system instructions + payload in, plain text out).
package ai

import "context"

// Generator sends one request to a text-generation provider.
// Implementations must return a *GenerationError on failure so callers
// can tell network, status and empty-output failures apart.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	// Provider names the backend for logs and metrics ("gemini", "openai", "ollama").
	Provider() string
}
