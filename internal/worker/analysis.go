package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// The statistical workers (ROI, budget, KPI) share a calling convention: a
// structured AnalysisRequest carrying section, question, and schema context.
// Each computes role-specific aggregates from the dataset at construction
// time, then narrates per question.

// ROIWorker computes return-on-investment figures across spending columns.
type ROIWorker struct {
	deps       Deps
	aggregates string
}

// NewROIWorker constructs the worker and precomputes spend/revenue aggregates.
func NewROIWorker(ctx context.Context, deps Deps) (*ROIWorker, error) {
	agg, err := aggregateNumericColumns(ctx, deps)
	if err != nil {
		return nil, types.WrapError(types.WORKER_CONSTRUCTION_FAILED, "failed to compute ROI aggregates", err)
	}
	return &ROIWorker{deps: deps, aggregates: agg}, nil
}

// Role returns RoleROI.
func (w *ROIWorker) Role() Role { return RoleROI }

// Close releases worker resources.
func (w *ROIWorker) Close() error { return nil }

const roiSystemPrompt = `You are a marketing ROI analyst. Using the aggregates provided,
compute and report return on investment per channel (revenue attributable to a
channel divided by its spend) and identify top and bottom performers. Report
figures, not recommendations.`

// Invoke answers a structured analysis request.
func (w *ROIWorker) Invoke(ctx context.Context, req AnalysisRequest) (string, error) {
	return w.deps.complete(ctx, roiSystemPrompt, analysisUser(req, w.aggregates))
}

// BudgetWorker evaluates budget allocation across channels.
type BudgetWorker struct {
	deps       Deps
	aggregates string
}

// NewBudgetWorker constructs the worker and precomputes spend aggregates.
func NewBudgetWorker(ctx context.Context, deps Deps) (*BudgetWorker, error) {
	agg, err := aggregateNumericColumns(ctx, deps)
	if err != nil {
		return nil, types.WrapError(types.WORKER_CONSTRUCTION_FAILED, "failed to compute budget aggregates", err)
	}
	return &BudgetWorker{deps: deps, aggregates: agg}, nil
}

// Role returns RoleBudget.
func (w *BudgetWorker) Role() Role { return RoleBudget }

// Close releases worker resources.
func (w *BudgetWorker) Close() error { return nil }

const budgetSystemPrompt = `You are a marketing budget analyst. Using the aggregates
provided, assess how the current budget is distributed across channels and
quantify an improved allocation proportional to observed returns. Include the
supporting numbers for every reallocation you state.`

// Invoke answers a structured analysis request.
func (w *BudgetWorker) Invoke(ctx context.Context, req AnalysisRequest) (string, error) {
	return w.deps.complete(ctx, budgetSystemPrompt, analysisUser(req, w.aggregates))
}

// KPIWorker identifies the key performance indicators driving outcomes.
type KPIWorker struct {
	deps       Deps
	aggregates string
}

// NewKPIWorker constructs the worker and precomputes KPI aggregates.
func NewKPIWorker(ctx context.Context, deps Deps) (*KPIWorker, error) {
	agg, err := aggregateNumericColumns(ctx, deps)
	if err != nil {
		return nil, types.WrapError(types.WORKER_CONSTRUCTION_FAILED, "failed to compute KPI aggregates", err)
	}
	return &KPIWorker{deps: deps, aggregates: agg}, nil
}

// Role returns RoleKPI.
func (w *KPIWorker) Role() Role { return RoleKPI }

// Close releases worker resources.
func (w *KPIWorker) Close() error { return nil }

const kpiSystemPrompt = `You are a KPI analyst. Using the aggregates provided, identify
the metrics that moved most over the period covered by the data, and explain
which ones drove the headline results. Report the figures behind each driver.`

// Invoke answers a structured analysis request.
func (w *KPIWorker) Invoke(ctx context.Context, req AnalysisRequest) (string, error) {
	return w.deps.complete(ctx, kpiSystemPrompt, analysisUser(req, w.aggregates))
}

// analysisUser formats the user prompt shared by the statistical workers.
func analysisUser(req AnalysisRequest, aggregates string) string {
	return fmt.Sprintf("Report section: %s\nSchema:\n%s\nPrecomputed aggregates:\n%s\nQuestion: %s",
		req.Section, req.Schema, aggregates, req.Question)
}

// aggregateNumericColumns sums and averages every numeric column of every
// table, producing the raw material the statistical workers narrate from.
func aggregateNumericColumns(ctx context.Context, deps Deps) (string, error) {
	if deps.Store == nil {
		return "", fmt.Errorf("dataset store is required")
	}

	var b strings.Builder
	for _, t := range deps.Store.Tables() {
		for _, c := range t.Columns {
			if c.Type != "REAL" {
				continue
			}
			total, err := deps.Store.QueryScalar(ctx, fmt.Sprintf("SELECT SUM(%q) FROM %q", c.Name, t.Name))
			if err != nil {
				return "", err
			}
			mean, err := deps.Store.QueryScalar(ctx, fmt.Sprintf("SELECT AVG(%q) FROM %q", c.Name, t.Name))
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%s.%s: total=%.2f mean=%.2f\n", t.Name, c.Name, total, mean)
		}
	}

	if b.Len() == 0 {
		b.WriteString("(no numeric columns found)\n")
	}
	return b.String(), nil
}
