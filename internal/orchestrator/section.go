package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Himanshusheo/Market-Lens/internal/types"
	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

// Section identifies one report section.
type Section string

const (
	SectionExecutiveSummary     Section = "executive_summary"
	SectionBusinessContext      Section = "business_context"
	SectionMarketingPerformance Section = "marketing_performance"
	SectionPerformanceDrivers   Section = "performance_drivers"
	SectionMarketingROI         Section = "marketing_roi"
	SectionBudgetAllocation     Section = "budget_allocation"
	SectionImplementation       Section = "implementation"
)

func (s Section) String() string { return string(s) }

// Title formats the snake_case section id for display, keeping the
// marketing initialisms upper-cased. Casers carry internal state, so one
// is built per call rather than shared.
func (s Section) Title() string {
	caser := cases.Title(language.English)
	parts := strings.Split(string(s), "_")
	for i, p := range parts {
		switch strings.ToLower(p) {
		case "roi", "kpi":
			parts[i] = strings.ToUpper(p)
		default:
			parts[i] = caser.String(p)
		}
	}
	return strings.Join(parts, " ")
}

// capabilityMap binds each section to the ordered worker roles it needs.
// Role order here is the sequential execution order and the slot order in
// compiled output; it never changes at runtime.
var capabilityMap = map[Section][]worker.Role{
	SectionExecutiveSummary:     {worker.RoleExploration},
	SectionBusinessContext:      {worker.RoleExploration, worker.RoleMarket, worker.RoleSQL},
	SectionMarketingPerformance: {worker.RoleExploration, worker.RoleSQL},
	SectionPerformanceDrivers:   {worker.RoleKPI, worker.RoleSQL},
	SectionMarketingROI:         {worker.RoleROI, worker.RoleSQL},
	SectionBudgetAllocation:     {worker.RoleBudget, worker.RoleSQL},
	SectionImplementation:       {worker.RoleMarket},
}

// Resolve returns the worker roles for a section, in execution order. The
// returned slice is a copy; callers may not mutate the map through it.
// Unknown sections fail with SECTION_UNKNOWN.
func Resolve(section Section) ([]worker.Role, error) {
	roles, ok := capabilityMap[section]
	if !ok {
		return nil, types.NewError(types.SECTION_UNKNOWN,
			fmt.Sprintf("unknown section %q (known sections: %v)", section, KnownSections()))
	}
	out := make([]worker.Role, len(roles))
	copy(out, roles)
	return out, nil
}

// KnownSections returns every mapped section in stable sorted order.
func KnownSections() []Section {
	sections := make([]Section, 0, len(capabilityMap))
	for s := range capabilityMap {
		sections = append(sections, s)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i] < sections[j] })
	return sections
}

// IsKnown reports whether the section has a capability mapping.
func IsKnown(section Section) bool {
	_, ok := capabilityMap[section]
	return ok
}
