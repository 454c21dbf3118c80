package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Himanshusheo/Market-Lens/internal/retry"
	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

// Strategy selects how a section's workers are dispatched.
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
)

// Scheduler runs every worker a section needs and fills the aggregator.
// Schedulers never fail a section because a worker failed: worker outcomes,
// good or bad, land in the aggregator and are the compiler's problem.
type Scheduler interface {
	// Schedule dispatches the given roles for the section and returns once
	// every role has a result recorded (or the section deadline sealed the
	// aggregator with timeout failures).
	Schedule(ctx context.Context, section Section, question string, roles []worker.Role, agg *Aggregator)
}

// TaskRunner executes a single worker task: resolve the instance from the
// registry, invoke it through the adapter, retry transient failures. Every
// outcome is an InvocationResult; construction errors become failure
// results here rather than propagating.
type TaskRunner struct {
	registry *worker.Registry
	retrier  *retry.Controller
	schema   string
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewTaskRunner(registry *worker.Registry, retrier *retry.Controller, schema string, logger *slog.Logger, tracer trace.Tracer) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskRunner{
		registry: registry,
		retrier:  retrier,
		schema:   schema,
		logger:   logger,
		tracer:   tracer,
	}
}

func (t *TaskRunner) run(ctx context.Context, section Section, question string, role worker.Role) worker.InvocationResult {
	ctx, span := t.startSpan(ctx, "worker."+role.String(),
		attribute.String("section", section.String()),
		attribute.String("role", role.String()))
	defer span.End()

	start := time.Now()
	inst, err := t.registry.Get(ctx, role)
	if err != nil {
		t.logger.WarnContext(ctx, "worker construction failed",
			"section", section, "role", role, "error", err)
		return worker.FailureFromError(role, err, time.Since(start))
	}

	adapter := worker.NewAdapter(role, t.logger)
	inv := worker.Invocation{
		Question: question,
		Section:  section.String(),
		Schema:   t.schema,
	}

	result := t.retrier.Do(ctx, role, func(ctx context.Context) worker.InvocationResult {
		return adapter.Invoke(ctx, inst, inv)
	})

	span.SetAttributes(attribute.Bool("failed", result.Failed))
	return result
}

// startSpan is nil-safe: with no tracer configured it returns a no-op span.
func (t *TaskRunner) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t.tracer == nil {
		return trace.NewNoopTracerProvider().Tracer("").Start(ctx, name)
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
