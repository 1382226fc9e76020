package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveCreated       = "leave_created"
	LeaveRHDecided     = "leave_rh_decided"
	LeaveAdminDecided  = "leave_admin_decided"
	LeaveDeleted       = "leave_deleted"
	LeaveAggregateType = "leave_request"
)

// LeaveLifecycleEvent is published for every state change of a leave
// request. BalanceDelta is the signed change applied to the employee's
// ledger by the same transaction.
type LeaveLifecycleEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	LeaveID      string    `json:"leave_id"`
	EmployeeID   string    `json:"employee_id"`
	AdminID      string    `json:"admin_id"`
	ActorID      string    `json:"actor_id"`
	LeaveType    string    `json:"leave_type"`
	State        string    `json:"state"`
	Status       string    `json:"status"`
	RHStatus     string    `json:"rh_status"`
	Days         int       `json:"days"`
	BalanceDelta int       `json:"balance_delta"`
	OccurredAt   time.Time `json:"occurred_at"`
}
