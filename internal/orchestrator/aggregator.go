package orchestrator

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Himanshusheo/Market-Lens/internal/types"
	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

// Aggregator collects worker results for one section. Each role slot is
// write-once: a duplicate Put means the scheduler double-dispatched and is
// surfaced as an error rather than silently overwritten. Seal freezes the
// aggregator at the section deadline, filling absent required slots with
// timeout failures; Puts that arrive after Seal are dropped with a log
// line instead of corrupting compiled output.
type Aggregator struct {
	section Section
	logger  *slog.Logger

	mu      sync.Mutex
	results map[worker.Role]worker.InvocationResult
	sealed  bool
}

// NewAggregator creates an empty aggregator for the section.
func NewAggregator(section Section, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		section: section,
		logger:  logger,
		results: make(map[worker.Role]worker.InvocationResult),
	}
}

// Put records one worker's result. Duplicate writes for a role return
// AGGREGATE_DUPLICATE_WRITE; writes after Seal return AGGREGATE_SEALED and
// are logged and discarded.
func (a *Aggregator) Put(result worker.InvocationResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sealed {
		a.logger.Warn("dropping late worker result",
			"section", a.section, "role", result.Role, "failed", result.Failed)
		return types.NewError(types.AGGREGATE_SEALED,
			fmt.Sprintf("section %s already sealed, dropping result for role %s", a.section, result.Role))
	}
	if _, exists := a.results[result.Role]; exists {
		return types.NewError(types.AGGREGATE_DUPLICATE_WRITE,
			fmt.Sprintf("role %s already recorded for section %s", result.Role, a.section))
	}

	a.results[result.Role] = result
	return nil
}

// Seal freezes the aggregator. Required roles with no result yet are
// filled with timeout failures so the compiler always sees a slot per
// role. Sealing twice is a no-op.
func (a *Aggregator) Seal(required []worker.Role) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sealed {
		return
	}
	a.sealed = true

	for _, role := range required {
		if _, ok := a.results[role]; !ok {
			a.logger.Warn("worker missed section deadline",
				"section", a.section, "role", role)
			a.results[role] = worker.Failure(role, worker.FailureTimeout,
				"worker did not report before the section deadline", 0)
		}
	}
}

// Snapshot returns a copy of the recorded results keyed by role.
func (a *Aggregator) Snapshot() map[worker.Role]worker.InvocationResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[worker.Role]worker.InvocationResult, len(a.results))
	for role, result := range a.results {
		out[role] = result
	}
	return out
}

// Flags returns the per-role success flags for the section, covering
// exactly the given roles. Roles with no recorded result report false.
func (a *Aggregator) Flags(roles []worker.Role) map[worker.Role]bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	flags := make(map[worker.Role]bool, len(roles))
	for _, role := range roles {
		result, ok := a.results[role]
		flags[role] = ok && result.OK()
	}
	return flags
}

// Complete reports whether every given role has a recorded result.
func (a *Aggregator) Complete(roles []worker.Role) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, role := range roles {
		if _, ok := a.results[role]; !ok {
			return false
		}
	}
	return true
}
