package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/Himanshusheo/Market-Lens/internal/llm"
	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// OllamaProvider implements llm.Provider for locally hosted models via Ollama.
// No credentials are required; the server URL defaults to localhost.
type OllamaProvider struct {
	client *ollama.LLM
	config ProviderConfig
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(cfg ProviderConfig) (*OllamaProvider, error) {
	opts := []ollama.Option{}

	if cfg.DefaultModel != "" {
		opts = append(opts, ollama.WithModel(cfg.DefaultModel))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	return &OllamaProvider{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Complete sends a completion request
func (p *OllamaProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Model == "" {
		req.Model = p.config.DefaultModel
	}

	messages := toSchemaMessages(req.Messages)
	resp, err := p.client.GenerateContent(ctx, messages, buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	return fromLangchainResponse(resp, req.Model), nil
}

// Health checks provider connectivity with a minimal completion.
func (p *OllamaProvider) Health(ctx context.Context) types.HealthStatus {
	_, err := p.client.GenerateContent(ctx, toSchemaMessages([]llm.Message{
		llm.NewUserMessage("ping"),
	}))
	if err != nil {
		return types.Unhealthy("ollama provider unreachable: " + err.Error())
	}
	return types.Healthy("ollama provider operational")
}
