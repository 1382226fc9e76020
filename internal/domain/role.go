package domain

import "strings"

// Role is the closed set of user kinds. Every user row carries exactly one.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

func ParseRole(v string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(v)))
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return r, true
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

// HasLedger reports whether users of this role own leave balances.
// Admins approve requests but never file them.
func (r Role) HasLedger() bool {
	return r == RoleHR || r == RoleManager || r == RoleEmployee
}

// SkipsRHTier reports whether a request filed by this role starts already
// approved at the first tier.
func (r Role) SkipsRHTier() bool {
	return r == RoleHR || r == RoleManager
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}
