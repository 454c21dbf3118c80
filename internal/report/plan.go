// Package report holds the report plan (which sections to generate, with
// which guiding questions) and the assembler that writes the markdown and
// JSON artifacts.
package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Himanshusheo/Market-Lens/internal/orchestrator"
	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// Plan is the ordered list of sections a report run generates.
type Plan struct {
	Title    string                  `yaml:"title"`
	Sections []orchestrator.PlanItem `yaml:"-"`
}

// planFile is the on-disk YAML shape of a plan override.
type planFile struct {
	Title    string        `yaml:"title"`
	Sections []planSection `yaml:"sections"`
}

type planSection struct {
	Name     string `yaml:"name"`
	Question string `yaml:"question"`
}

// DefaultPlan returns the built-in marketing report plan: every known
// section in fixed order with its standard guiding question.
func DefaultPlan() Plan {
	return Plan{
		Title: "Marketing Report",
		Sections: []orchestrator.PlanItem{
			{
				Section:  orchestrator.SectionExecutiveSummary,
				Question: "Analyze the uploaded data and give the insights and executive summary of the company from the data. Perform basic statistics and basic operations on the columns of the data to get valuable numbers and insights about the company data.",
			},
			{
				Section:  orchestrator.SectionBusinessContext,
				Question: "Analyze the marketing expenditure and marketing performance of the company from the data. Check the revenue generated from the marketing expenditure and the return on investment for the marketing initiatives undertaken last year. Search from web the information about the market of the domain of the company and present the results.",
			},
			{
				Section:  orchestrator.SectionMarketingPerformance,
				Question: "Evaluate the overall effectiveness of the marketing strategies implemented in the past year. Check for the top performing marketing channels in data which draw the revenue and explain the rationale for the top performing marketing channels.",
			},
			{
				Section:  orchestrator.SectionPerformanceDrivers,
				Question: "Identify the primary factors that contributed to the company's revenue growth. Analyze the data to find the top performing products and the top KPIs/KRAs/KSAs.",
			},
			{
				Section:  orchestrator.SectionMarketingROI,
				Question: "Assess the return on investment for the marketing initiatives undertaken last year. Analyze the data to find the top performing marketing channels and the return on investment for the marketing initiatives undertaken last year.",
			},
			{
				Section:  orchestrator.SectionBudgetAllocation,
				Question: "Determine the most effective allocation of the marketing budget for future campaigns. Analyze the current marketing budget and the marketing performance of the company from the data and determine the most effective allocation of the marketing budget for future campaigns.",
			},
			{
				Section:  orchestrator.SectionImplementation,
				Question: "Outline a strategic plan for implementing the proposed marketing budget changes. Give some strategies to improve the marketing performance of the company. Also suggest some basic prospective timeline for boosting the marketing and scaling up the business.",
			},
		},
	}
}

// LoadPlan reads a YAML plan override. Sections without a question fall
// back to the default question for that section; sections the engine does
// not know are passed through so the orchestrator can record the error.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, types.WrapError(types.CONFIG_LOAD_FAILED,
			fmt.Sprintf("failed to read plan file %s", path), err)
	}

	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return Plan{}, types.WrapError(types.CONFIG_PARSE_FAILED,
			fmt.Sprintf("failed to parse plan file %s", path), err)
	}
	if len(pf.Sections) == 0 {
		return Plan{}, types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("plan file %s lists no sections", path))
	}

	defaults := defaultQuestions()
	plan := Plan{Title: pf.Title}
	if plan.Title == "" {
		plan.Title = "Marketing Report"
	}

	for _, s := range pf.Sections {
		item := orchestrator.PlanItem{
			Section:  orchestrator.Section(s.Name),
			Question: s.Question,
		}
		if item.Question == "" {
			item.Question = defaults[item.Section]
		}
		plan.Sections = append(plan.Sections, item)
	}
	return plan, nil
}

// Filter returns a copy of the plan restricted to the named sections, in
// plan order. Names with no match are appended as-is so unknown sections
// still surface as recorded errors rather than being silently dropped.
func (p Plan) Filter(names []string) Plan {
	if len(names) == 0 {
		return p
	}

	byName := make(map[orchestrator.Section]orchestrator.PlanItem, len(p.Sections))
	for _, item := range p.Sections {
		byName[item.Section] = item
	}

	out := Plan{Title: p.Title}
	for _, name := range names {
		section := orchestrator.Section(name)
		if item, ok := byName[section]; ok {
			out.Sections = append(out.Sections, item)
			continue
		}
		out.Sections = append(out.Sections, orchestrator.PlanItem{Section: section})
	}
	return out
}

func defaultQuestions() map[orchestrator.Section]string {
	questions := make(map[orchestrator.Section]string)
	for _, item := range DefaultPlan().Sections {
		questions[item.Section] = item.Question
	}
	return questions
}
