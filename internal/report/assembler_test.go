package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusheo/Market-Lens/internal/orchestrator"
)

func sampleResult() orchestrator.ReportResult {
	return orchestrator.ReportResult{
		Sections: []orchestrator.SectionResult{
			{Section: orchestrator.SectionExecutiveSummary, CompiledText: "The company grew 14% year over year."},
			{Section: orchestrator.SectionMarketingROI, CompiledText: "Email delivered the highest return."},
			{Section: orchestrator.Section("unknown_section"), CompiledText: "Error generating content: unknown section"},
		},
	}
}

func TestAssemblerWritesMarkdownAndJSON(t *testing.T) {
	dir := t.TempDir()
	a := NewAssembler(dir, "Marketing Report", nil)

	path, err := a.Write(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.md"), path)

	md, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(md)

	assert.True(t, strings.HasPrefix(text, "# Marketing Report\n"))
	assert.Contains(t, text, "## Executive Summary\n")
	assert.Contains(t, text, "## Marketing ROI\n")
	assert.Contains(t, text, "The company grew 14% year over year.")
	assert.Contains(t, text, "Error generating content: unknown section")

	raw, err := os.ReadFile(filepath.Join(dir, "report_dict.json"))
	require.NoError(t, err)

	var dict map[string]string
	require.NoError(t, json.Unmarshal(raw, &dict))
	assert.Equal(t, "Email delivered the highest return.", dict["marketing_roi"])
	assert.Len(t, dict, 3)

	// Two-space indentation for downstream diff-friendliness.
	assert.Contains(t, string(raw), "\n  \"")
}

func TestAssemblerCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	a := NewAssembler(dir, "", nil)

	_, err := a.Write(sampleResult())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "report.md"))
	assert.NoError(t, err)
}

func TestAssemblerEmptyBodyPlaceholder(t *testing.T) {
	dir := t.TempDir()
	a := NewAssembler(dir, "Marketing Report", nil)

	result := orchestrator.ReportResult{
		Sections: []orchestrator.SectionResult{
			{Section: orchestrator.SectionImplementation},
		},
	}
	path, err := a.Write(result)
	require.NoError(t, err)

	md, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(md), "No results available")
}

func TestSectionTitleFormatting(t *testing.T) {
	a := NewAssembler(t.TempDir(), "", nil)

	assert.Equal(t, "Executive Summary", a.SectionTitle(orchestrator.SectionExecutiveSummary))
	assert.Equal(t, "Marketing ROI", a.SectionTitle(orchestrator.SectionMarketingROI))
	assert.Equal(t, "Performance Drivers", a.SectionTitle(orchestrator.SectionPerformanceDrivers))
}
