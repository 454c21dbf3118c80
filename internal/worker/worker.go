// Package worker implements the specialist analysis workers, the uniform
// invocation adapter over their heterogeneous calling conventions, and the
// lazily-constructing registry that owns their lifecycle.
package worker

import (
	"context"
	"log/slog"

	"github.com/Himanshusheo/Market-Lens/internal/dataset"
	"github.com/Himanshusheo/Market-Lens/internal/llm"
	"github.com/Himanshusheo/Market-Lens/internal/websearch"
)

// Instance is a constructed specialist worker held by the registry.
// Instances are expensive to build, stateful, and live until the registry
// recycles them; schedulers never destroy instances themselves.
type Instance interface {
	// Role returns the role this instance is bound to
	Role() Role

	// Close releases any resources held by the instance
	Close() error
}

// Deps carries the shared collaborators injected into worker construction.
// It is built once by the top-level caller and threaded through the
// registry; workers hold no hidden global state.
type Deps struct {
	LLM         llm.Provider
	Store       *dataset.Store
	Searcher    websearch.Searcher
	Logger      *slog.Logger
	Model       string
	Temperature float64
	MaxTokens   int
}

// complete issues one completion against the configured model.
func (d Deps) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := d.LLM.Complete(ctx, llm.CompletionRequest{
		Model:       d.Model,
		Temperature: d.Temperature,
		MaxTokens:   d.MaxTokens,
		Messages: []llm.Message{
			llm.NewSystemMessage(system),
			llm.NewUserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// AnalysisRequest is the structured record consumed by the statistical
// workers (ROI, budget, KPI).
type AnalysisRequest struct {
	Section  string
	Question string
	Schema   string
}
