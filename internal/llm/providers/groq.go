package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/Himanshusheo/Market-Lens/internal/llm"
	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// groqBaseURL is Groq's OpenAI-compatible endpoint.
const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider implements llm.Provider for Groq-hosted models through the
// OpenAI-compatible API surface.
type GroqProvider struct {
	client *openai.LLM
	config ProviderConfig
}

// NewGroqProvider creates a new Groq provider
func NewGroqProvider(cfg ProviderConfig) (*GroqProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}

	if apiKey == "" {
		return nil, llm.NewAuthError("groq", nil)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = groqBaseURL
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
	}

	if cfg.DefaultModel != "" {
		opts = append(opts, openai.WithModel(cfg.DefaultModel))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("groq", err)
	}

	return &GroqProvider{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name
func (p *GroqProvider) Name() string {
	return "groq"
}

// Complete sends a completion request
func (p *GroqProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Model == "" {
		req.Model = p.config.DefaultModel
	}

	messages := toSchemaMessages(req.Messages)
	resp, err := p.client.GenerateContent(ctx, messages, buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("groq", err)
	}

	return fromLangchainResponse(resp, req.Model), nil
}

// Health checks provider connectivity with a minimal completion.
func (p *GroqProvider) Health(ctx context.Context) types.HealthStatus {
	_, err := p.client.GenerateContent(ctx, toSchemaMessages([]llm.Message{
		llm.NewUserMessage("ping"),
	}))
	if err != nil {
		return types.Unhealthy("groq provider unreachable: " + err.Error())
	}
	return types.Healthy("groq provider operational")
}
