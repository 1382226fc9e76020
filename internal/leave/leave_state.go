package leave

import (
	"time"

	"rh-management/internal/domain"
	leaveerrors "rh-management/internal/leave/errors"

	"github.com/google/uuid"
)

// State is the single lifecycle column of a leave request. The two
// statuses exposed by the API are derived from it.
type State string

const (
	StatePendingRH    State = "PENDING_RH"
	StatePendingAdmin State = "PENDING_ADMIN"
	StateApproved     State = "APPROVED"
	StateRejected     State = "REJECTED"
)

// Tier records which approval tier rejected a request.
type Tier string

const (
	TierRH    Tier = "RH"
	TierAdmin Tier = "ADMIN"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func ParseDecision(v string) (Status, error) {
	switch Status(v) {
	case StatusApproved, StatusRejected:
		return Status(v), nil
	}
	return "", leaveerrors.ErrInvalidDecision
}

// InitialState is PENDING_ADMIN for requesters whose own approval tier
// would otherwise be themselves.
func InitialState(requester domain.Role) State {
	if requester.SkipsRHTier() {
		return StatePendingAdmin
	}
	return StatePendingRH
}

// Status is the admin-facing overall status.
func (r *LeaveRequest) Status() Status {
	switch r.State {
	case StateApproved:
		return StatusApproved
	case StateRejected:
		return StatusRejected
	default:
		return StatusPending
	}
}

// RHStatus is the first-tier status.
func (r *LeaveRequest) RHStatus() Status {
	switch r.State {
	case StatePendingRH:
		return StatusPending
	case StateRejected:
		if r.RejectedTier != nil && *r.RejectedTier == TierAdmin {
			return StatusApproved
		}
		return StatusRejected
	default:
		return StatusApproved
	}
}

// DecideRH applies a first-tier decision and returns the number of days to
// credit back to the employee.
func (r *LeaveRequest) DecideRH(decision Status, actorID uuid.UUID, at time.Time) (int, error) {
	if r.State != StatePendingRH {
		return 0, leaveerrors.ErrInvalidState
	}

	r.DecidedRHBy = &actorID
	r.DecidedRHAt = &at

	if decision == StatusApproved {
		r.State = StatePendingAdmin
		return 0, nil
	}
	return r.reject(TierRH), nil
}

// DecideAdmin applies the final decision and returns the number of days to
// credit back to the employee.
func (r *LeaveRequest) DecideAdmin(decision Status, actorID uuid.UUID, at time.Time) (int, error) {
	if r.State != StatePendingAdmin {
		return 0, leaveerrors.ErrInvalidState
	}

	r.DecidedAdminBy = &actorID
	r.DecidedAdminAt = &at

	if decision == StatusApproved {
		r.State = StateApproved
		return 0, nil
	}
	return r.reject(TierAdmin), nil
}

func (r *LeaveRequest) reject(tier Tier) int {
	r.State = StateRejected
	r.RejectedTier = &tier
	if r.Refunded {
		return 0
	}
	r.Refunded = true
	return r.Days
}

// DeleteRefund is the credit owed when the request is removed. Deletion
// credits regardless of state unless skipRefunded is set and a rejection
// already refunded the days.
func (r *LeaveRequest) DeleteRefund(skipRefunded bool) int {
	if skipRefunded && r.Refunded {
		return 0
	}
	return r.Days
}
