package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// ExplorationWorker performs descriptive exploration of the loaded dataset:
// schema inspection, per-table statistics, and narrative synthesis. Its
// calling convention is a plain question string.
type ExplorationWorker struct {
	deps Deps

	// profile is computed once at construction; exploring the whole dataset
	// is the expensive part of this worker's setup.
	profile string
}

// NewExplorationWorker constructs the worker and profiles the dataset.
func NewExplorationWorker(ctx context.Context, deps Deps) (*ExplorationWorker, error) {
	if deps.Store == nil {
		return nil, types.NewError(types.WORKER_CONSTRUCTION_FAILED, "exploration worker requires a dataset store")
	}

	profile, err := profileDataset(ctx, deps)
	if err != nil {
		return nil, types.WrapError(types.WORKER_CONSTRUCTION_FAILED, "failed to profile dataset", err)
	}

	return &ExplorationWorker{deps: deps, profile: profile}, nil
}

// Role returns RoleExploration.
func (w *ExplorationWorker) Role() Role { return RoleExploration }

// Close releases worker resources. The store is shared and not closed here.
func (w *ExplorationWorker) Close() error { return nil }

const explorationSystemPrompt = `You are a data exploration analyst for a business report.
Using the dataset profile provided, answer the question with concrete numbers,
distributions, and trends found in the data. Present findings factually; do not
speculate beyond what the profile supports.`

// Analyze answers an exploration question against the profiled dataset.
func (w *ExplorationWorker) Analyze(ctx context.Context, question string) (string, error) {
	user := fmt.Sprintf("Dataset profile:\n%s\nQuestion: %s", w.profile, question)
	return w.deps.complete(ctx, explorationSystemPrompt, user)
}

// profileDataset builds a text profile of every table: schema plus basic
// numeric statistics per column.
func profileDataset(ctx context.Context, deps Deps) (string, error) {
	var b strings.Builder
	b.WriteString(deps.Store.SchemaInfo())

	for _, t := range deps.Store.Tables() {
		for _, c := range t.Columns {
			if c.Type != "REAL" {
				continue
			}
			stats, err := deps.Store.Query(ctx, fmt.Sprintf(
				`SELECT COUNT(%q) AS n, ROUND(SUM(%q),2) AS total, ROUND(AVG(%q),2) AS mean, MIN(%q) AS min, MAX(%q) AS max FROM %q`,
				c.Name, c.Name, c.Name, c.Name, c.Name, t.Name,
			))
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "Statistics for %s.%s:\n%s\n", t.Name, c.Name, stats)
		}
	}

	return b.String(), nil
}
