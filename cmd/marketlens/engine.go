package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/Himanshusheo/Market-Lens/internal/config"
	"github.com/Himanshusheo/Market-Lens/internal/dataset"
	"github.com/Himanshusheo/Market-Lens/internal/llm/providers"
	"github.com/Himanshusheo/Market-Lens/internal/observability"
	"github.com/Himanshusheo/Market-Lens/internal/orchestrator"
	"github.com/Himanshusheo/Market-Lens/internal/report"
	"github.com/Himanshusheo/Market-Lens/internal/retry"
	"github.com/Himanshusheo/Market-Lens/internal/websearch"
	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

// engine bundles the wired components for one run.
type engine struct {
	orch      *orchestrator.Orchestrator
	registry  *worker.Registry
	store     *dataset.Store
	assembler *report.Assembler
	shutdown  func(context.Context) error
}

// buildEngine wires the full pipeline from configuration: LLM provider,
// dataset store, search client, worker registry, retry controller,
// scheduler, compiler, lifecycle manager and orchestrator.
func buildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*engine, error) {
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:    cfg.Tracing.Enabled,
		SampleRate: cfg.Tracing.SampleRate,
		TraceFile:  cfg.Tracing.TraceFile,
	}, version)
	if err != nil {
		return nil, err
	}
	var tracer trace.Tracer
	if cfg.Tracing.Enabled {
		tracer = tp.Tracer("marketlens")
	}

	provider, err := providers.NewProvider(providers.ProviderConfig{
		Type:         cfg.LLM.Provider,
		APIKey:       cfg.LLM.APIKey,
		DefaultModel: cfg.EffectiveModel(),
		BaseURL:      cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	store, err := dataset.Open(ctx, cfg.Data.Path, logger)
	if err != nil {
		return nil, err
	}

	searcher := websearch.NewClient(websearch.Config{
		Endpoint:   cfg.Search.Endpoint,
		APIKey:     cfg.Search.APIKey,
		MaxResults: cfg.Search.MaxResults,
		FetchPages: cfg.Search.FetchPages,
		Timeout:    cfg.Search.Timeout,
	}, logger)

	registry := worker.NewRegistry(worker.Deps{
		LLM:         provider,
		Store:       store,
		Searcher:    searcher,
		Logger:      logger,
		Model:       cfg.EffectiveModel(),
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})

	maxAttempts, baseDelay := cfg.EffectiveRetry()
	retrier := retry.NewController(maxAttempts, baseDelay, cfg.Retry.AttemptTimeout, logger)

	runner := orchestrator.NewTaskRunner(registry, retrier, store.SchemaInfo(), logger, tracer)

	var scheduler orchestrator.Scheduler
	switch orchestrator.Strategy(cfg.Scheduler.Strategy) {
	case orchestrator.StrategySequential:
		scheduler = orchestrator.NewSequentialScheduler(runner, cfg.Scheduler.TaskPause, logger)
	default:
		scheduler = orchestrator.NewParallelScheduler(runner, cfg.Scheduler.MaxParallel, cfg.Core.SectionDeadline, logger)
	}

	compiler := orchestrator.NewCompiler(provider, cfg.EffectiveModel(), cfg.LLM.Temperature, cfg.LLM.MaxTokens, logger)
	lifecycle := orchestrator.NewLifecycleManager(registry, cfg.Lifecycle.HeapCeilingMB, cfg.Lifecycle.Cooldown, logger)

	orch := orchestrator.New(orchestrator.Options{
		Scheduler:    scheduler,
		Compiler:     compiler,
		Lifecycle:    lifecycle,
		Logger:       logger,
		Tracer:       tracer,
		SectionPause: cfg.Scheduler.SectionPause,
	})

	return &engine{
		orch:      orch,
		registry:  registry,
		store:     store,
		assembler: report.NewAssembler(cfg.Report.OutputDir, cfg.Report.Title, logger),
		shutdown: func(ctx context.Context) error {
			registry.Recycle()
			if err := store.Close(); err != nil {
				return err
			}
			return tp.Shutdown(ctx)
		},
	}, nil
}

// loadPlan resolves the report plan: the configured override file when
// set, the built-in plan otherwise.
func loadPlan(cfg *config.Config) (report.Plan, error) {
	if cfg.Report.PlanPath != "" {
		return report.LoadPlan(cfg.Report.PlanPath)
	}
	plan := report.DefaultPlan()
	if cfg.Report.Title != "" {
		plan.Title = cfg.Report.Title
	}
	return plan, nil
}
