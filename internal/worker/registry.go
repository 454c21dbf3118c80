package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// Constructor builds one worker instance. Construction may block on I/O
// (dataset profiling, client warm-up); the registry serializes concurrent
// construction per role.
type Constructor func(ctx context.Context, deps Deps) (Instance, error)

// defaultConstructors wires each specialist role to its worker type.
func defaultConstructors() map[Role]Constructor {
	return map[Role]Constructor{
		RoleExploration: func(ctx context.Context, deps Deps) (Instance, error) { return NewExplorationWorker(ctx, deps) },
		RoleSQL:         func(ctx context.Context, deps Deps) (Instance, error) { return NewSQLWorker(ctx, deps) },
		RoleROI:         func(ctx context.Context, deps Deps) (Instance, error) { return NewROIWorker(ctx, deps) },
		RoleBudget:      func(ctx context.Context, deps Deps) (Instance, error) { return NewBudgetWorker(ctx, deps) },
		RoleKPI:         func(ctx context.Context, deps Deps) (Instance, error) { return NewKPIWorker(ctx, deps) },
		RoleMarket:      func(ctx context.Context, deps Deps) (Instance, error) { return NewMarketWorker(ctx, deps) },
	}
}

// Registry lazily constructs and caches worker instances by role. It owns
// worker lifetime exclusively: instances live until Recycle tears them
// down. Concurrent Gets for the same uninitialized role construct exactly
// once (single-flight); Gets for different roles never block each other.
type Registry struct {
	deps         Deps
	logger       *slog.Logger
	constructors map[Role]Constructor

	mu        sync.RWMutex
	instances map[Role]Instance

	group singleflight.Group
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithConstructor overrides the constructor for a role. Used to install
// stub workers in tests and to swap implementations.
func WithConstructor(role Role, ctor Constructor) RegistryOption {
	return func(r *Registry) {
		r.constructors[role] = ctor
	}
}

// NewRegistry creates a registry over the given dependencies.
func NewRegistry(deps Deps, opts ...RegistryOption) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		deps:         deps,
		logger:       logger,
		constructors: defaultConstructors(),
		instances:    make(map[Role]Instance),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Get returns the cached instance for the role, constructing it on first
// use. Construction failures are returned as WorkerConstructionError and
// are not cached; the next Get retries construction.
func (r *Registry) Get(ctx context.Context, role Role) (Instance, error) {
	r.mu.RLock()
	inst, ok := r.instances[role]
	r.mu.RUnlock()
	if ok {
		return inst, nil
	}

	v, err, _ := r.group.Do(role.String(), func() (any, error) {
		// Re-check under the flight: a previous flight may have populated
		// the cache between our read and this call.
		r.mu.RLock()
		inst, ok := r.instances[role]
		r.mu.RUnlock()
		if ok {
			return inst, nil
		}

		ctor, ok := r.constructors[role]
		if !ok {
			return nil, types.NewError(types.WORKER_UNKNOWN, fmt.Sprintf("no constructor for role %s", role))
		}

		r.logger.InfoContext(ctx, "constructing worker", "role", role)
		built, err := ctor(ctx, r.deps)
		if err != nil {
			if types.CodeOf(err) == types.WORKER_CONSTRUCTION_FAILED {
				return nil, err
			}
			return nil, types.WrapError(types.WORKER_CONSTRUCTION_FAILED,
				fmt.Sprintf("failed to construct %s worker", role), err)
		}

		r.mu.Lock()
		r.instances[role] = built
		r.mu.Unlock()

		return built, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(Instance), nil
}

// Recycle drops all cached instances and forces their teardown. The next
// Get for each role reconstructs lazily.
func (r *Registry) Recycle() {
	r.mu.Lock()
	instances := r.instances
	r.instances = make(map[Role]Instance)
	r.mu.Unlock()

	for role, inst := range instances {
		if err := inst.Close(); err != nil {
			r.logger.Warn("worker teardown failed", "role", role, "error", err)
		}
	}

	if len(instances) > 0 {
		r.logger.Info("worker registry recycled", "instances_dropped", len(instances))
	}
}

// Size returns the number of currently cached instances.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// Health reports registry state: healthy when instances are cached,
// degraded when empty (instances will be constructed on demand).
func (r *Registry) Health(ctx context.Context) types.HealthStatus {
	if r.Size() == 0 {
		return types.Degraded("no workers constructed yet")
	}
	return types.Healthy(fmt.Sprintf("%d workers cached", r.Size()))
}
