package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

// SequentialScheduler dispatches a section's workers one at a time in
// capability-map order, pacing between tasks with a rate limiter so
// back-to-back LLM calls do not trip provider rate limits.
type SequentialScheduler struct {
	runner  *TaskRunner
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewSequentialScheduler builds the ordered scheduler. taskPause spaces
// consecutive worker dispatches; zero disables pacing.
func NewSequentialScheduler(runner *TaskRunner, taskPause time.Duration, logger *slog.Logger) *SequentialScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if taskPause > 0 {
		limiter = rate.NewLimiter(rate.Every(taskPause), 1)
	}
	return &SequentialScheduler{
		runner:  runner,
		limiter: limiter,
		logger:  logger,
	}
}

// Schedule runs each role in order, recording every outcome. A role's
// failure never stops the ones after it. The aggregator is sealed before
// returning so late results cannot appear.
func (s *SequentialScheduler) Schedule(ctx context.Context, section Section, question string, roles []worker.Role, agg *Aggregator) {
	for _, role := range roles {
		if err := s.limiter.Wait(ctx); err != nil {
			break
		}

		s.logger.InfoContext(ctx, "dispatching worker",
			"section", section, "role", role, "strategy", StrategySequential)

		result := s.runner.run(ctx, section, question, role)
		if err := agg.Put(result); err != nil {
			s.logger.WarnContext(ctx, "failed to record worker result",
				"section", section, "role", role, "error", err)
		}
	}

	agg.Seal(roles)
}
