package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

// ParallelScheduler fans a section's workers out concurrently and joins on
// a barrier: the compiler never sees a partially-populated aggregator.
// MaxParallel bounds in-flight workers with a semaphore; the section
// deadline seals the aggregator with timeout failures for stragglers so
// one hung worker cannot wedge the report.
type ParallelScheduler struct {
	runner          *TaskRunner
	maxParallel     int
	sectionDeadline time.Duration
	logger          *slog.Logger
}

// NewParallelScheduler builds the fan-out scheduler. maxParallel below 1
// means unbounded; sectionDeadline of zero disables the deadline.
func NewParallelScheduler(runner *TaskRunner, maxParallel int, sectionDeadline time.Duration, logger *slog.Logger) *ParallelScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParallelScheduler{
		runner:          runner,
		maxParallel:     maxParallel,
		sectionDeadline: sectionDeadline,
		logger:          logger,
	}
}

// Schedule launches one goroutine per role, bounded by the semaphore, and
// waits for all of them or the section deadline, whichever comes first.
// Either way the aggregator is sealed on return.
func (s *ParallelScheduler) Schedule(ctx context.Context, section Section, question string, roles []worker.Role, agg *Aggregator) {
	runCtx := ctx
	var cancel context.CancelFunc
	if s.sectionDeadline > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.sectionDeadline)
		defer cancel()
	}

	sem := make(chan struct{}, s.semSize(len(roles)))
	var wg sync.WaitGroup

	for _, role := range roles {
		wg.Add(1)
		go func(role worker.Role) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-runCtx.Done():
				return
			}

			s.logger.InfoContext(runCtx, "dispatching worker",
				"section", section, "role", role, "strategy", StrategyParallel)

			result := s.runner.run(runCtx, section, question, role)
			if err := agg.Put(result); err != nil {
				s.logger.WarnContext(runCtx, "failed to record worker result",
					"section", section, "role", role, "error", err)
			}
		}(role)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-runCtx.Done():
		s.logger.WarnContext(ctx, "section deadline reached, sealing with stragglers outstanding",
			"section", section, "deadline", s.sectionDeadline)
	}

	// Join barrier: sealing fills any missing slots, so the aggregator is
	// fully populated for every role from here on.
	agg.Seal(roles)
}

func (s *ParallelScheduler) semSize(n int) int {
	if s.maxParallel < 1 || s.maxParallel > n {
		return max(n, 1)
	}
	return s.maxParallel
}
