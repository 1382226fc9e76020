package leave

import (
	"rh-management/internal/domain"
	"rh-management/internal/team"
)

// CanDecideRH reports whether actor may take the first-tier decision for
// an employee of t. t is nil when the employee has no team.
func CanDecideRH(actor domain.Actor, t *team.Team) bool {
	switch actor.Role {
	case domain.RoleHR:
		return true
	case domain.RoleManager:
		return t.ManagedBy(actor.ID)
	default:
		return false
	}
}

func CanDecideAdmin(actor domain.Actor, r *LeaveRequest) bool {
	return actor.Role == domain.RoleAdmin && actor.ID == r.AdminID.String()
}

func CanCreate(actor domain.Actor, employeeID string) bool {
	return actor.Role.HasLedger() && actor.ID == employeeID
}

func CanDelete(actor domain.Actor, r *LeaveRequest) bool {
	return actor.Role.HasLedger() && actor.ID == r.EmployeeID.String()
}
