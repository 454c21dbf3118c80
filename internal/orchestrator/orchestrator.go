// Package orchestrator coordinates section generation: it resolves each
// section to its specialist workers, schedules them, aggregates their
// results and compiles the section narrative, degrading gracefully when
// workers fail.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// PlanItem names one section to generate and its guiding question.
type PlanItem struct {
	Section  Section
	Question string
}

// Options wires an Orchestrator.
type Options struct {
	Scheduler    Scheduler
	Compiler     *Compiler
	Lifecycle    *LifecycleManager
	Logger       *slog.Logger
	Tracer       trace.Tracer
	SectionPause time.Duration
}

// Orchestrator is the engine's entry point. Run generates one section;
// RunReport walks a plan, isolating per-section errors so one bad section
// never aborts the rest.
type Orchestrator struct {
	scheduler    Scheduler
	compiler     *Compiler
	lifecycle    *LifecycleManager
	logger       *slog.Logger
	tracer       trace.Tracer
	sectionPause time.Duration
}

// New creates an Orchestrator from the given options.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		scheduler:    opts.Scheduler,
		compiler:     opts.Compiler,
		lifecycle:    opts.Lifecycle,
		logger:       logger,
		tracer:       opts.Tracer,
		sectionPause: opts.SectionPause,
	}
}

// Run generates a single section. Worker failures degrade the section and
// surface in RoleSuccess; only an unknown section or a compile failure
// returns an error.
func (o *Orchestrator) Run(ctx context.Context, section Section, question string) (SectionResult, error) {
	ctx, span := o.startSpan(ctx, "section.run",
		attribute.String("section", section.String()))
	defer span.End()

	start := time.Now()

	roles, err := Resolve(section)
	if err != nil {
		return SectionResult{Section: section}, err
	}

	o.logger.InfoContext(ctx, "running section",
		"section", section, "roles", len(roles))

	agg := NewAggregator(section, o.logger)
	o.scheduler.Schedule(ctx, section, question, roles, agg)

	results := agg.Snapshot()
	flags := agg.Flags(roles)

	compiled, err := o.compiler.Compile(ctx, section, question, roles, results)
	if err != nil {
		return SectionResult{
			Section:     section,
			RoleSuccess: flags,
			Results:     results,
			Elapsed:     time.Since(start),
		}, err
	}

	result := SectionResult{
		Section:      section,
		CompiledText: compiled,
		RoleSuccess:  flags,
		Results:      results,
		Elapsed:      time.Since(start),
	}

	o.logger.InfoContext(ctx, "section complete",
		"section", section, "degraded", result.Degraded(), "elapsed", result.Elapsed)
	return result, nil
}

// RunReport generates every section in the plan, in order. Sections that
// error (unknown section, compile failure) are recorded as errors with a
// placeholder body and the run continues; the caller decides whether a
// partly-failed report is acceptable.
func (o *Orchestrator) RunReport(ctx context.Context, plan []PlanItem) (ReportResult, error) {
	ctx, span := o.startSpan(ctx, "report.run",
		attribute.Int("sections", len(plan)))
	defer span.End()

	start := time.Now()
	report := ReportResult{RunID: types.NewID()}

	o.logger.InfoContext(ctx, "starting report run",
		"run_id", report.RunID, "sections", len(plan))

	for i, item := range plan {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := o.Run(ctx, item.Section, item.Question)
		if err != nil {
			o.logger.ErrorContext(ctx, "section failed",
				"section", item.Section, "error", err)
			result.CompiledText = fmt.Sprintf("Error generating content: %v", err)
			report.Errors = append(report.Errors, SectionError{
				Section: item.Section,
				Message: err.Error(),
			})
		}
		report.Sections = append(report.Sections, result)

		if o.lifecycle != nil {
			o.lifecycle.AfterSection(item.Section)
		}

		if o.sectionPause > 0 && i < len(plan)-1 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(o.sectionPause):
			}
		}
	}

	report.Elapsed = time.Since(start)
	o.logger.InfoContext(ctx, "report complete",
		"run_id", report.RunID,
		"sections", len(report.Sections), "errors", len(report.Errors), "elapsed", report.Elapsed)
	return report, nil
}

func (o *Orchestrator) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o.tracer == nil {
		return trace.NewNoopTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
