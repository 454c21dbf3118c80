package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusheo/Market-Lens/internal/llm/providers"
	"github.com/Himanshusheo/Market-Lens/internal/retry"
	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

func newTestOrchestrator(t *testing.T, compilerResponses []string, fakes ...*fakeWorker) *Orchestrator {
	t.Helper()

	reg := newTestRegistry(fakes...)
	runner := NewTaskRunner(reg, retry.NewController(3, time.Millisecond, 0, nil), "TABLE master (...)", nil, nil)
	scheduler := NewParallelScheduler(runner, 10, time.Minute, nil)
	compiler := NewCompiler(providers.NewMockProvider(compilerResponses), "test-model", 0, 0, nil)

	return New(Options{
		Scheduler: scheduler,
		Compiler:  compiler,
	})
}

func TestRunSectionAllWorkersSucceedAfterRetries(t *testing.T) {
	kpi := &fakeWorker{role: worker.RoleKPI, text: "kpi findings"}
	// Fails twice with a transient error, then recovers.
	sqlw := &fakeWorker{role: worker.RoleSQL, text: "sql findings", err: assert.AnError, failFirst: 2}

	o := newTestOrchestrator(t, []string{"performance drivers narrative"}, kpi, sqlw)

	result, err := o.Run(context.Background(), SectionPerformanceDrivers, "what drove growth?")
	require.NoError(t, err)

	assert.Equal(t, "performance drivers narrative", result.CompiledText)
	assert.True(t, result.RoleSuccess[worker.RoleKPI])
	assert.True(t, result.RoleSuccess[worker.RoleSQL], "sql must be flagged successful after recovery")
	assert.False(t, result.Degraded())
	assert.Equal(t, int32(3), sqlw.calls.Load())
}

func TestRunSectionDegradesWhenAllWorkersExhaust(t *testing.T) {
	budget := &fakeWorker{role: worker.RoleBudget, err: assert.AnError}
	sqlw := &fakeWorker{role: worker.RoleSQL, err: assert.AnError}

	o := newTestOrchestrator(t, []string{"no analysis results were produced"}, budget, sqlw)

	result, err := o.Run(context.Background(), SectionBudgetAllocation, "allocate the budget")
	require.NoError(t, err, "all-failure sections still compile")

	assert.NotEmpty(t, result.CompiledText)
	assert.False(t, result.RoleSuccess[worker.RoleBudget])
	assert.False(t, result.RoleSuccess[worker.RoleSQL])
	assert.True(t, result.Degraded())
}

func TestRunUnknownSection(t *testing.T) {
	o := newTestOrchestrator(t, []string{"x"})

	_, err := o.Run(context.Background(), Section("unknown_section"), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section")
}

func TestRunReportIsolatesSectionErrors(t *testing.T) {
	exploration := &fakeWorker{role: worker.RoleExploration, text: "explored"}

	o := newTestOrchestrator(t, []string{"summary narrative"}, exploration)

	plan := []PlanItem{
		{Section: SectionExecutiveSummary, Question: "summarize"},
		{Section: Section("unknown_section"), Question: "q"},
	}

	result, err := o.RunReport(context.Background(), plan)
	require.NoError(t, err, "a bad section must not abort the report")

	require.Len(t, result.Sections, 2)
	assert.Equal(t, "summary narrative", result.Sections[0].CompiledText)
	assert.Contains(t, result.Sections[1].CompiledText, "Error generating content:")

	require.Len(t, result.Errors, 1)
	assert.Equal(t, Section("unknown_section"), result.Errors[0].Section)
	assert.True(t, result.Failed())
}

func TestRunReportSectionOrderPreserved(t *testing.T) {
	exploration := &fakeWorker{role: worker.RoleExploration, text: "e"}
	market := &fakeWorker{role: worker.RoleMarket, text: "m"}

	o := newTestOrchestrator(t, []string{"one", "two"}, exploration, market)

	plan := []PlanItem{
		{Section: SectionExecutiveSummary, Question: "a"},
		{Section: SectionImplementation, Question: "b"},
	}

	result, err := o.RunReport(context.Background(), plan)
	require.NoError(t, err)

	require.Len(t, result.Sections, 2)
	assert.Equal(t, SectionExecutiveSummary, result.Sections[0].Section)
	assert.Equal(t, SectionImplementation, result.Sections[1].Section)
	assert.False(t, result.Failed())
	assert.False(t, result.RunID.IsZero())
}

func TestRunReportHonorsCancellation(t *testing.T) {
	exploration := &fakeWorker{role: worker.RoleExploration, text: "e"}
	o := newTestOrchestrator(t, []string{"x"}, exploration)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.RunReport(ctx, []PlanItem{{Section: SectionExecutiveSummary, Question: "q"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunSectionFlagsAreStable(t *testing.T) {
	// Deterministic stubs: kpi always succeeds, sql always fails.
	kpi := &fakeWorker{role: worker.RoleKPI, text: "kpi findings"}
	sqlw := &fakeWorker{role: worker.RoleSQL, err: assert.AnError}

	o := newTestOrchestrator(t, []string{"x", "y"}, kpi, sqlw)

	first, err := o.Run(context.Background(), SectionPerformanceDrivers, "what drove growth?")
	require.NoError(t, err)
	second, err := o.Run(context.Background(), SectionPerformanceDrivers, "what drove growth?")
	require.NoError(t, err)

	assert.True(t, first.RoleSuccess[worker.RoleKPI])
	assert.False(t, first.RoleSuccess[worker.RoleSQL])
	assert.Equal(t, first.RoleSuccess, second.RoleSuccess,
		"identical runs must report identical flags")
}
