package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Himanshusheo/Market-Lens/internal/orchestrator"
)

var reportSections []string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the full marketing report",
	Long: `Generate every section of the marketing report (or a subset via
--sections) and write report.md plus report_dict.json to the output
directory. Sections that fail are recorded in the report with an error
placeholder; the remaining sections still run.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringSliceVarP(&reportSections, "sections", "s", nil,
		"Sections to generate (default: all)")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	eng, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer eng.shutdown(ctx)

	plan, err := loadPlan(cfg)
	if err != nil {
		return err
	}
	plan = plan.Filter(reportSections)

	fmt.Fprintf(cmd.OutOrStdout(), "Generating %s (%d sections)\n",
		color.CyanString(plan.Title), len(plan.Sections))

	result, err := eng.orch.RunReport(ctx, plan.Sections)
	if err != nil {
		return err
	}

	path, err := eng.assembler.Write(result)
	if err != nil {
		return err
	}

	printRunSummary(cmd, result)
	fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to %s\n", color.GreenString(path))
	return nil
}

func printRunSummary(cmd *cobra.Command, result orchestrator.ReportResult) {
	out := cmd.OutOrStdout()
	for _, section := range result.Sections {
		switch {
		case section.CompiledText == "":
			fmt.Fprintf(out, "  %s %s\n", color.RedString("✗"), section.Section)
		case section.Degraded():
			fmt.Fprintf(out, "  %s %s (partial results)\n", color.YellowString("!"), section.Section)
		default:
			fmt.Fprintf(out, "  %s %s\n", color.GreenString("✓"), section.Section)
		}
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  %s %s: %s\n", color.RedString("error"), e.Section, e.Message)
	}
}
