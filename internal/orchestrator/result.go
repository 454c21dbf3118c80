package orchestrator

import (
	"time"

	"github.com/Himanshusheo/Market-Lens/internal/types"
	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

// SectionResult is the outcome of running one section end to end.
type SectionResult struct {
	Section      Section                                 `json:"section"`
	CompiledText string                                  `json:"compiled_text"`
	RoleSuccess  map[worker.Role]bool                    `json:"role_success"`
	Results      map[worker.Role]worker.InvocationResult `json:"-"`
	Elapsed      time.Duration                           `json:"elapsed"`
}

// Degraded reports whether any role for the section failed. A degraded
// section still compiles; the flags tell readers which inputs were real.
func (r SectionResult) Degraded() bool {
	for _, ok := range r.RoleSuccess {
		if !ok {
			return true
		}
	}
	return false
}

// ReportResult is the outcome of a full report run. Sections holds the
// per-section results in plan order; Errors records sections that could
// not run at all (unknown section, compile escalation) without aborting
// the rest of the report.
type ReportResult struct {
	RunID    types.ID        `json:"run_id"`
	Sections []SectionResult `json:"sections"`
	Errors   []SectionError  `json:"errors,omitempty"`
	Elapsed  time.Duration   `json:"elapsed"`
}

// SectionError pairs a failed section with its error message.
type SectionError struct {
	Section Section `json:"section"`
	Message string  `json:"message"`
}

// Failed reports whether any section failed to produce output entirely.
func (r ReportResult) Failed() bool { return len(r.Errors) > 0 }
