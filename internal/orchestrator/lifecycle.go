package orchestrator

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

// recyclePause gives the runtime a moment to release freed memory before
// the next section starts.
const recyclePause = 2 * time.Second

// LifecycleManager reclaims memory between sections. After each section it
// forces a GC cycle and checks live heap against the configured ceiling;
// crossing it recycles the worker registry so cached instances (and their
// prompt history, dataset profiles and client buffers) are released. A
// cooldown keeps a single busy stretch from recycling on every section.
type LifecycleManager struct {
	registry    *worker.Registry
	heapCeiling uint64
	cooldown    time.Duration
	logger      *slog.Logger
	now         func() time.Time
	sleep       func(time.Duration)

	mu          sync.Mutex
	lastRecycle time.Time
}

// NewLifecycleManager builds the manager. heapCeilingMB of zero disables
// the ceiling check; GC between sections still runs.
func NewLifecycleManager(registry *worker.Registry, heapCeilingMB uint64, cooldown time.Duration, logger *slog.Logger) *LifecycleManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &LifecycleManager{
		registry:    registry,
		heapCeiling: heapCeilingMB * 1024 * 1024,
		cooldown:    cooldown,
		logger:      logger,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// AfterSection runs the between-sections reclamation pass. It returns true
// when the registry was recycled.
func (m *LifecycleManager) AfterSection(section Section) bool {
	runtime.GC()

	if m.heapCeiling == 0 {
		return false
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	m.logger.Debug("post-section memory check",
		"section", section,
		"heap_alloc_mb", stats.HeapAlloc/(1024*1024),
		"ceiling_mb", m.heapCeiling/(1024*1024))

	if stats.HeapAlloc < m.heapCeiling {
		return false
	}

	m.mu.Lock()
	inCooldown := m.cooldown > 0 && m.now().Sub(m.lastRecycle) < m.cooldown
	if !inCooldown {
		m.lastRecycle = m.now()
	}
	m.mu.Unlock()

	if inCooldown {
		m.logger.Warn("heap over ceiling but recycle is cooling down",
			"section", section, "heap_alloc_mb", stats.HeapAlloc/(1024*1024))
		return false
	}

	m.logger.Warn("heap over ceiling, recycling worker registry",
		"section", section,
		"heap_alloc_mb", stats.HeapAlloc/(1024*1024),
		"ceiling_mb", m.heapCeiling/(1024*1024))

	m.registry.Recycle()
	runtime.GC()
	m.sleep(recyclePause)
	return true
}
