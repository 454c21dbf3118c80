package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Himanshusheo/Market-Lens/internal/orchestrator"
	"github.com/Himanshusheo/Market-Lens/internal/types"
)

const (
	markdownFile = "report.md"
	jsonFile     = "report_dict.json"
)

// Assembler writes the report artifacts: a markdown document with one
// heading per section, and a JSON map of section id to compiled body for
// downstream tooling.
type Assembler struct {
	outputDir string
	title     string
	logger    *slog.Logger
	now       func() time.Time
}

// NewAssembler builds an assembler writing into outputDir.
func NewAssembler(outputDir, title string, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if title == "" {
		title = "Marketing Report"
	}
	return &Assembler{
		outputDir: outputDir,
		title:     title,
		logger:    logger,
		now:       time.Now,
	}
}

// Write renders the report result to disk and returns the markdown path.
// Sections appear in run order; sections that errored carry their error
// placeholder body so the document shows what happened instead of a gap.
func (a *Assembler) Write(result orchestrator.ReportResult) (string, error) {
	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return "", types.WrapError(types.DATA_OPEN_FAILED,
			fmt.Sprintf("failed to create output directory %s", a.outputDir), err)
	}

	mdPath := filepath.Join(a.outputDir, markdownFile)
	if err := os.WriteFile(mdPath, []byte(a.renderMarkdown(result)), 0o644); err != nil {
		return "", types.WrapError(types.DATA_OPEN_FAILED,
			fmt.Sprintf("failed to write %s", mdPath), err)
	}

	jsonPath := filepath.Join(a.outputDir, jsonFile)
	if err := a.writeJSON(jsonPath, result); err != nil {
		return "", err
	}

	a.logger.Info("report written",
		"markdown", mdPath, "json", jsonPath, "sections", len(result.Sections))
	return mdPath, nil
}

func (a *Assembler) renderMarkdown(result orchestrator.ReportResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", a.title)
	fmt.Fprintf(&sb, "*Last updated: %s*\n\n", a.now().Format("2006-01-02 15:04:05"))

	for _, section := range result.Sections {
		fmt.Fprintf(&sb, "## %s\n\n", a.SectionTitle(section.Section))
		body := strings.TrimSpace(section.CompiledText)
		if body == "" {
			body = "No results available"
		}
		sb.WriteString(body + "\n\n")
	}
	return sb.String()
}

func (a *Assembler) writeJSON(path string, result orchestrator.ReportResult) error {
	dict := make(map[string]string, len(result.Sections))
	for _, section := range result.Sections {
		dict[section.Section.String()] = section.CompiledText
	}

	data, err := json.MarshalIndent(dict, "", "  ")
	if err != nil {
		return types.WrapError(types.DATA_OPEN_FAILED, "failed to encode report dictionary", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return types.WrapError(types.DATA_OPEN_FAILED,
			fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// SectionTitle formats a section id for display.
func (a *Assembler) SectionTitle(section orchestrator.Section) string {
	return section.Title()
}
