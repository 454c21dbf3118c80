package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Himanshusheo/Market-Lens/internal/llm"
	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// MockCall represents a recorded call to the mock provider
type MockCall struct {
	Request llm.CompletionRequest
}

// MockProvider implements llm.Provider for testing. Responses are served
// round-robin from the configured list and every call is recorded.
type MockProvider struct {
	mu            sync.RWMutex
	responses     []string
	responseIndex int
	calls         []MockCall
	failures      int
}

// NewMockProvider creates a new mock provider
func NewMockProvider(responses []string) *MockProvider {
	return &MockProvider{
		responses: responses,
		calls:     make([]MockCall, 0),
	}
}

// FailFirst configures the provider to fail the first n Complete calls
// with a retryable rate-limit error before serving responses.
func (p *MockProvider) FailFirst(n int) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures = n
	return p
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete generates a completion
func (p *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, llm.TranslateError("mock", err)
	}

	p.mu.Lock()
	p.calls = append(p.calls, MockCall{Request: req})

	if p.failures > 0 {
		p.failures--
		p.mu.Unlock()
		return nil, types.NewRetryableError(llm.ErrProviderRateLimited, "mock rate limited")
	}

	if len(p.responses) == 0 {
		p.mu.Unlock()
		return nil, llm.NewError(llm.ErrCompletionFailed, "no responses configured")
	}

	response := p.responses[p.responseIndex%len(p.responses)]
	p.responseIndex++
	p.mu.Unlock()

	return &llm.CompletionResponse{
		ID:      uuid.New().String(),
		Model:   req.Model,
		Content: response,
		Usage: llm.Usage{
			PromptTokens:     10,
			CompletionTokens: len(response) / 4,
			TotalTokens:      10 + len(response)/4,
		},
	}, nil
}

// Health always reports healthy
func (p *MockProvider) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("mock provider operational")
}

// Calls returns a copy of all recorded calls
func (p *MockProvider) Calls() []MockCall {
	p.mu.RLock()
	defer p.mu.RUnlock()
	calls := make([]MockCall, len(p.calls))
	copy(calls, p.calls)
	return calls
}

// CallCount returns the number of Complete calls received
func (p *MockProvider) CallCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.calls)
}

// LastPrompt returns the user content of the most recent call, or an error
// if no calls were recorded.
func (p *MockProvider) LastPrompt() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.calls) == 0 {
		return "", fmt.Errorf("no calls recorded")
	}
	msgs := p.calls[len(p.calls)-1].Request.Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			return msgs[i].Content, nil
		}
	}
	return "", fmt.Errorf("no user message in last call")
}
