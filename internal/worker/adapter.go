package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// Invocation is the normalized input every adapter accepts, regardless of
// the underlying worker's calling convention.
type Invocation struct {
	Question string
	Section  string
	Schema   string
}

// The three underlying calling conventions. Each role implements exactly
// one; the adapter's tagged dispatch selects it.

// QuestionAnalyzer is the plain-question convention (exploration, market).
type QuestionAnalyzer interface {
	Analyze(ctx context.Context, question string) (string, error)
}

// SchemaQuerier is the question-plus-context convention (sql).
type SchemaQuerier interface {
	Query(ctx context.Context, question, schema string) (string, error)
}

// Researcher is the plain-query research convention (market).
type Researcher interface {
	Research(ctx context.Context, query string) (string, error)
}

// StructuredAnalyzer is the structured-record convention (roi, budget, kpi).
type StructuredAnalyzer interface {
	Invoke(ctx context.Context, req AnalysisRequest) (string, error)
}

// Adapter hides the heterogeneous worker calling conventions behind one
// Invoke signature and guarantees that no error or panic escapes to the
// scheduler: every outcome becomes an InvocationResult.
type Adapter struct {
	role   Role
	logger *slog.Logger
}

// NewAdapter creates an adapter for the given role.
func NewAdapter(role Role, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{role: role, logger: logger}
}

// Role returns the role this adapter dispatches for.
func (a *Adapter) Role() Role { return a.role }

// Invoke dispatches the invocation to the instance using the role's own
// convention. The returned result is always well-formed; failures carry the
// captured message.
func (a *Adapter) Invoke(ctx context.Context, inst Instance, inv Invocation) (result InvocationResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = Failure(a.role, FailurePanic, fmt.Sprintf("worker panicked: %v", r), time.Since(start))
			a.logger.ErrorContext(ctx, "worker panic recovered",
				"role", a.role,
				"panic", r,
			)
		}
	}()

	text, err := a.dispatch(ctx, inst, inv)
	elapsed := time.Since(start)

	if err != nil {
		a.logger.WarnContext(ctx, "worker invocation failed",
			"role", a.role,
			"elapsed", elapsed,
			"error", err,
		)
		return FailureFromError(a.role, err, elapsed)
	}

	a.logger.InfoContext(ctx, "worker invocation completed",
		"role", a.role,
		"elapsed", elapsed,
		"output_bytes", len(text),
	)
	return Success(a.role, text, elapsed)
}

// dispatch performs the tagged per-role call. Each role has a distinct
// underlying signature: a plain question, a question plus schema context,
// or a structured analysis request.
func (a *Adapter) dispatch(ctx context.Context, inst Instance, inv Invocation) (string, error) {
	if inst == nil {
		return "", types.NewError(types.WORKER_INVOCATION_FAILED, "nil worker instance")
	}
	if inst.Role() != a.role {
		return "", types.NewError(types.WORKER_INVOCATION_FAILED,
			fmt.Sprintf("adapter for %s received %s instance", a.role, inst.Role()))
	}

	switch a.role {
	case RoleExploration:
		w, ok := inst.(QuestionAnalyzer)
		if !ok {
			return "", badInstance(a.role, inst)
		}
		return w.Analyze(ctx, inv.Question)

	case RoleSQL:
		w, ok := inst.(SchemaQuerier)
		if !ok {
			return "", badInstance(a.role, inst)
		}
		return w.Query(ctx, inv.Question, inv.Schema)

	case RoleMarket:
		w, ok := inst.(Researcher)
		if !ok {
			return "", badInstance(a.role, inst)
		}
		return w.Research(ctx, inv.Question)

	case RoleROI, RoleBudget, RoleKPI:
		w, ok := inst.(StructuredAnalyzer)
		if !ok {
			return "", badInstance(a.role, inst)
		}
		return w.Invoke(ctx, AnalysisRequest{Section: inv.Section, Question: inv.Question, Schema: inv.Schema})

	default:
		return "", types.NewError(types.WORKER_UNKNOWN, fmt.Sprintf("no dispatch variant for role %s", a.role))
	}
}

func badInstance(role Role, inst Instance) error {
	return types.NewError(types.WORKER_INVOCATION_FAILED,
		fmt.Sprintf("instance %T does not implement the %s convention", inst, role))
}
