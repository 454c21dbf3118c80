package providers

import (
	"fmt"

	"github.com/Himanshusheo/Market-Lens/internal/llm"
)

// ProviderConfig carries the settings needed to construct a provider.
type ProviderConfig struct {
	Type         string
	APIKey       string
	DefaultModel string
	BaseURL      string
}

// NewProvider creates a new LLM provider based on the configuration
func NewProvider(cfg ProviderConfig) (llm.Provider, error) {
	switch cfg.Type {
	case "google":
		return NewGoogleProvider(cfg)

	case "groq":
		return NewGroqProvider(cfg)

	case "ollama":
		return NewOllamaProvider(cfg)

	case "mock":
		return NewMockProvider([]string{"Mock response"}), nil

	default:
		return nil, llm.NewError(llm.ErrProviderNotFound, fmt.Sprintf("unknown provider type: %s", cfg.Type))
	}
}
