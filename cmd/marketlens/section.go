package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Himanshusheo/Market-Lens/internal/orchestrator"
	"github.com/Himanshusheo/Market-Lens/internal/report"
)

var sectionQuestion string

var sectionCmd = &cobra.Command{
	Use:   "section <name>",
	Short: "Generate a single report section",
	Long: `Generate one section and print its compiled markdown to stdout.
The guiding question defaults to the section's standard question and can
be overridden with --question.`,
	Args: cobra.ExactArgs(1),
	RunE: runSection,
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the known report sections and their workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, section := range orchestrator.KnownSections() {
			roles, err := orchestrator.Resolve(section)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", color.CyanString("%-24s", section.String()), roles)
		}
		return nil
	},
}

func init() {
	sectionCmd.Flags().StringVar(&sectionQuestion, "question", "", "Override the section's guiding question")
}

func runSection(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	section := orchestrator.Section(args[0])

	eng, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer eng.shutdown(ctx)

	question := sectionQuestion
	if question == "" {
		plan := report.DefaultPlan()
		for _, item := range plan.Sections {
			if item.Section == section {
				question = item.Question
				break
			}
		}
	}

	result, err := eng.orch.Run(ctx, section, question)
	if err != nil {
		return err
	}

	if result.Degraded() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s some workers failed:\n", color.YellowString("warning:"))
		for role, ok := range result.RoleSuccess {
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s %s\n", color.RedString("✗"), role)
			}
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.CompiledText)
	return nil
}
