package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusheo/Market-Lens/internal/orchestrator"
)

func TestDefaultPlanCoversEveryKnownSection(t *testing.T) {
	plan := DefaultPlan()

	require.Len(t, plan.Sections, 7)
	assert.Equal(t, "Marketing Report", plan.Title)

	seen := make(map[orchestrator.Section]bool)
	for _, item := range plan.Sections {
		assert.True(t, orchestrator.IsKnown(item.Section), "section %s", item.Section)
		assert.NotEmpty(t, item.Question, "section %s", item.Section)
		assert.False(t, seen[item.Section], "duplicate section %s", item.Section)
		seen[item.Section] = true
	}

	// Sections appear in report reading order.
	assert.Equal(t, orchestrator.SectionExecutiveSummary, plan.Sections[0].Section)
	assert.Equal(t, orchestrator.SectionImplementation, plan.Sections[len(plan.Sections)-1].Section)
}

func TestLoadPlanOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	content := `title: Q3 Review
sections:
  - name: marketing_roi
    question: How did Q3 campaigns pay back?
  - name: budget_allocation
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	plan, err := LoadPlan(path)
	require.NoError(t, err)

	assert.Equal(t, "Q3 Review", plan.Title)
	require.Len(t, plan.Sections, 2)
	assert.Equal(t, orchestrator.SectionMarketingROI, plan.Sections[0].Section)
	assert.Equal(t, "How did Q3 campaigns pay back?", plan.Sections[0].Question)

	// Missing question falls back to the default for that section.
	assert.Equal(t, orchestrator.SectionBudgetAllocation, plan.Sections[1].Section)
	assert.NotEmpty(t, plan.Sections[1].Question)
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadPlanEmptySections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: Empty\n"), 0o644))

	_, err := LoadPlan(path)
	require.Error(t, err)
}

func TestPlanFilter(t *testing.T) {
	plan := DefaultPlan()

	filtered := plan.Filter([]string{"marketing_roi", "executive_summary"})
	require.Len(t, filtered.Sections, 2)
	assert.Equal(t, orchestrator.SectionMarketingROI, filtered.Sections[0].Section)
	assert.Equal(t, orchestrator.SectionExecutiveSummary, filtered.Sections[1].Section)

	// Unknown names pass through so the orchestrator records the error.
	withUnknown := plan.Filter([]string{"unknown_section"})
	require.Len(t, withUnknown.Sections, 1)
	assert.Equal(t, orchestrator.Section("unknown_section"), withUnknown.Sections[0].Section)

	// No filter means the full plan.
	assert.Equal(t, plan.Sections, plan.Filter(nil).Sections)
}
