package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/Himanshusheo/Market-Lens/internal/llm"
	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// GoogleProvider implements llm.Provider for Google's Gemini models
type GoogleProvider struct {
	client *googleai.GoogleAI
	config ProviderConfig
}

// NewGoogleProvider creates a new Google provider
func NewGoogleProvider(cfg ProviderConfig) (*GoogleProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	if apiKey == "" {
		return nil, llm.NewAuthError("google", nil)
	}

	opts := []googleai.Option{
		googleai.WithAPIKey(apiKey),
	}

	if cfg.DefaultModel != "" {
		opts = append(opts, googleai.WithDefaultModel(cfg.DefaultModel))
	}

	client, err := googleai.New(context.Background(), opts...)
	if err != nil {
		return nil, llm.TranslateError("google", err)
	}

	return &GoogleProvider{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// Complete sends a completion request
func (p *GoogleProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Model == "" {
		req.Model = p.config.DefaultModel
	}

	messages := toSchemaMessages(req.Messages)
	resp, err := p.client.GenerateContent(ctx, messages, buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("google", err)
	}

	return fromLangchainResponse(resp, req.Model), nil
}

// Health checks provider connectivity with a minimal completion.
func (p *GoogleProvider) Health(ctx context.Context) types.HealthStatus {
	_, err := p.client.GenerateContent(ctx, toSchemaMessages([]llm.Message{
		llm.NewUserMessage("ping"),
	}))
	if err != nil {
		return types.Unhealthy("google provider unreachable: " + err.Error())
	}
	return types.Healthy("google provider operational")
}
