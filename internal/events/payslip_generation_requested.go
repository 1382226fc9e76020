package events

import "time"

const PayslipGenerationRequestedTopic = "hr.payslip.generation.requested.v1"

const (
	PayslipGenerationRequested = "payslip_generation_requested"
	PayslipAggregateType       = "employee_record"
)

type PayslipGenerationRequestedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	Month      string    `json:"month"`
	OccurredAt time.Time `json:"occurred_at"`
}
