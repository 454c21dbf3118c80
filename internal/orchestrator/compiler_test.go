package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusheo/Market-Lens/internal/llm/providers"
	"github.com/Himanshusheo/Market-Lens/internal/types"
	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

func TestCompilerIncludesSuccessfulFindings(t *testing.T) {
	mock := providers.NewMockProvider([]string{"compiled section"})
	c := NewCompiler(mock, "test-model", 0, 0, nil)

	roles := []worker.Role{worker.RoleKPI, worker.RoleSQL}
	results := map[worker.Role]worker.InvocationResult{
		worker.RoleKPI: worker.Success(worker.RoleKPI, "conversion rate rose 12%", 0),
		worker.RoleSQL: worker.Success(worker.RoleSQL, "top channel: email", 0),
	}

	text, err := c.Compile(context.Background(), SectionPerformanceDrivers, "what drove growth?", roles, results)
	require.NoError(t, err)
	assert.Equal(t, "compiled section", text)

	prompt, err := mock.LastPrompt()
	require.NoError(t, err)
	assert.Contains(t, prompt, "conversion rate rose 12%")
	assert.Contains(t, prompt, "top channel: email")
	assert.Contains(t, prompt, "KPI analysis")
	assert.Contains(t, prompt, "what drove growth?")
}

func TestCompilerMarksFailedRoles(t *testing.T) {
	mock := providers.NewMockProvider([]string{"degraded section"})
	c := NewCompiler(mock, "test-model", 0, 0, nil)

	roles := []worker.Role{worker.RoleBudget, worker.RoleSQL}
	results := map[worker.Role]worker.InvocationResult{
		worker.RoleBudget: worker.Success(worker.RoleBudget, "shift spend to search", 0),
		worker.RoleSQL:    worker.Failure(worker.RoleSQL, worker.FailureInvocation, "bad query", 0),
	}

	text, err := c.Compile(context.Background(), SectionBudgetAllocation, "allocate the budget", roles, results)
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	prompt, err := mock.LastPrompt()
	require.NoError(t, err)
	assert.Contains(t, prompt, "shift spend to search")
	assert.Contains(t, prompt, noResultsPlaceholder)
	assert.NotContains(t, prompt, "bad query", "failure internals must not leak into the prompt")
}

func TestCompilerHandlesAllFailures(t *testing.T) {
	mock := providers.NewMockProvider([]string{"no data was available for this section"})
	c := NewCompiler(mock, "test-model", 0, 0, nil)

	roles := []worker.Role{worker.RoleBudget, worker.RoleSQL}
	results := map[worker.Role]worker.InvocationResult{
		worker.RoleBudget: worker.Failure(worker.RoleBudget, worker.FailureTimeout, "deadline", 0),
		worker.RoleSQL:    worker.Failure(worker.RoleSQL, worker.FailureInvocation, "boom", 0),
	}

	text, err := c.Compile(context.Background(), SectionBudgetAllocation, "allocate the budget", roles, results)
	require.NoError(t, err, "all-failure input must still compile")
	assert.NotEmpty(t, text)
}

func TestCompilerMissingRoleTreatedAsFailure(t *testing.T) {
	mock := providers.NewMockProvider([]string{"partial"})
	c := NewCompiler(mock, "test-model", 0, 0, nil)

	roles := []worker.Role{worker.RoleExploration, worker.RoleSQL}
	results := map[worker.Role]worker.InvocationResult{
		worker.RoleExploration: worker.Success(worker.RoleExploration, "explored", 0),
	}

	_, err := c.Compile(context.Background(), SectionMarketingPerformance, "q", roles, results)
	require.NoError(t, err)

	prompt, err := mock.LastPrompt()
	require.NoError(t, err)
	assert.Contains(t, prompt, noResultsPlaceholder)
}

func TestCompilerEscalatesProviderError(t *testing.T) {
	mock := providers.NewMockProvider(nil) // no responses configured -> error
	c := NewCompiler(mock, "test-model", 0, 0, nil)

	_, err := c.Compile(context.Background(), SectionExecutiveSummary, "q",
		[]worker.Role{worker.RoleExploration}, nil)
	require.Error(t, err)
	assert.Equal(t, types.COMPILE_FAILED, types.CodeOf(err))
}
