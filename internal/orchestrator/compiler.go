package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Himanshusheo/Market-Lens/internal/llm"
	"github.com/Himanshusheo/Market-Lens/internal/types"
	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

const compilerSystemPrompt = `You are a senior marketing analyst writing one section of an analytical report.
Synthesize the specialist findings below into clear, well-structured prose for the named section.
Rules:
- Use only the findings provided. Inputs marked "No results available" contributed nothing; do not invent data for them.
- Write in markdown without a top-level heading (the report assembler adds it).
- Lead with the key insight, then supporting detail. Keep it concise and specific.`

const noResultsPlaceholder = "No results available"

// Compiler merges the per-role results of a section into one narrative via
// the LLM. It degrades rather than refuses: failed roles become explicit
// placeholders, and even an all-failure input set still produces a section
// noting the absence of results. Only an LLM error escalates.
type Compiler struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// NewCompiler builds the compile stage over the given provider.
func NewCompiler(provider llm.Provider, model string, temperature float64, maxTokens int, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		provider:    provider,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// Compile produces the section narrative from the aggregated results.
// roles fixes the slot order; results missing a role are treated as
// failures. Errors are COMPILE_FAILED and leave the section to the caller
// to record, never to abort the whole report.
func (c *Compiler) Compile(ctx context.Context, section Section, question string, roles []worker.Role, results map[worker.Role]worker.InvocationResult) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Section: %s\n", section.Title())
	fmt.Fprintf(&sb, "Guiding question: %s\n\n", question)
	sb.WriteString("Specialist findings:\n\n")

	failed := 0
	for _, role := range roles {
		fmt.Fprintf(&sb, "## %s\n", role.SemanticLabel())
		result, ok := results[role]
		if !ok || !result.OK() {
			failed++
			sb.WriteString(noResultsPlaceholder + "\n\n")
			continue
		}
		sb.WriteString(strings.TrimSpace(result.Text) + "\n\n")
	}

	if failed > 0 {
		c.logger.WarnContext(ctx, "compiling section with degraded inputs",
			"section", section, "failed_roles", failed, "total_roles", len(roles))
	}
	if failed == len(roles) {
		sb.WriteString("Every specialist input is unavailable. State plainly that no analysis results " +
			"were produced for this section and what a reader should expect once data is available.\n")
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: compilerSystemPrompt},
			{Role: llm.RoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return "", types.WrapError(types.COMPILE_FAILED,
			fmt.Sprintf("failed to compile section %s", section), err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", types.NewError(types.COMPILE_FAILED,
			fmt.Sprintf("compiler returned empty output for section %s", section))
	}
	return text, nil
}
