package worker

import (
	"context"
	"fmt"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// MarketWorker performs external market research: a web search followed by
// an LLM synthesis of the results. Its calling convention is a plain query
// string.
type MarketWorker struct {
	deps Deps
}

// NewMarketWorker constructs the worker.
func NewMarketWorker(ctx context.Context, deps Deps) (*MarketWorker, error) {
	if deps.Searcher == nil {
		return nil, types.NewError(types.WORKER_CONSTRUCTION_FAILED, "market worker requires a searcher")
	}
	return &MarketWorker{deps: deps}, nil
}

// Role returns RoleMarket.
func (w *MarketWorker) Role() Role { return RoleMarket }

// Close releases worker resources.
func (w *MarketWorker) Close() error { return nil }

const marketSystemPrompt = `You are a market research analyst. Synthesize the web search
results into insights about market dynamics, competitive positioning, and
industry trends relevant to the question. Cite the sources you draw from.`

// Research runs a web search for the query and synthesizes the results.
func (w *MarketWorker) Research(ctx context.Context, query string) (string, error) {
	resp, err := w.deps.Searcher.Search(ctx, query)
	if err != nil {
		return "", err
	}

	user := fmt.Sprintf("Question: %s\n\n%s", query, resp.Markdown())
	return w.deps.complete(ctx, marketSystemPrompt, user)
}
