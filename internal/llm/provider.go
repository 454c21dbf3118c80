package llm

import (
	"context"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// Provider defines the interface that all LLM backends must implement.
// It provides a unified abstraction over the different completion services
// (Google Gemini, Groq, local models) the report engine can run against.
type Provider interface {
	// Name returns the provider name (e.g., "google", "groq", "ollama")
	Name() string

	// Complete sends a completion request and returns the full response.
	// This is a blocking call that waits for the entire response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Health checks the health status of the provider and its connectivity
	Health(ctx context.Context) types.HealthStatus
}
