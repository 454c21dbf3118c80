package worker

import (
	"fmt"
)

// Role identifies one specialist analysis capability. Roles are globally
// unique and map 1:1 to an adapter dispatch variant.
type Role string

const (
	RoleExploration Role = "exploration"
	RoleSQL         Role = "sql"
	RoleROI         Role = "roi"
	RoleBudget      Role = "budget"
	RoleKPI         Role = "kpi"
	RoleMarket      Role = "market"
	RoleCompiler    Role = "compiler"
)

// AllRoles lists every specialist role the registry can construct. The
// compiler is not listed: it is a merge stage, not a fan-out worker, and is
// owned by the orchestrator.
func AllRoles() []Role {
	return []Role{RoleExploration, RoleSQL, RoleROI, RoleBudget, RoleKPI, RoleMarket}
}

// String returns the string representation of the Role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleExploration, RoleSQL, RoleROI, RoleBudget, RoleKPI, RoleMarket, RoleCompiler:
		return true
	default:
		return false
	}
}

// SemanticLabel returns the human label used when a role's output is
// referenced in compiled narrative context.
func (r Role) SemanticLabel() string {
	switch r {
	case RoleExploration:
		return "Exploration findings"
	case RoleSQL:
		return "SQL analysis results"
	case RoleROI:
		return "ROI figures"
	case RoleBudget:
		return "Budget optimization results"
	case RoleKPI:
		return "KPI analysis"
	case RoleMarket:
		return "Market research"
	case RoleCompiler:
		return "Compiled narrative"
	default:
		return string(r)
	}
}

// ParseRole parses and validates a role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown worker role: %q", s)
	}
	return r, nil
}
