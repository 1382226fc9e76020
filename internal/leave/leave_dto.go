package leave

import "rh-management/internal/shared/pagination"

type CreateLeaveRequest struct {
	// EmployeeID defaults to the caller. Any other value is refused.
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	AdminID    string `json:"admin_id" binding:"required,uuid"`
	Type       string `json:"type" binding:"required,oneof=HOLIDAY PERMISSION"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}

type DecisionRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type ListFilter struct {
	pagination.Query
}

type LeaveResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	AdminID      string `json:"admin_id"`
	Type         string `json:"type"`
	TypeLabel    string `json:"type_label,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Days         int    `json:"days"`
	Reason       string `json:"reason"`
	State        string `json:"state"`
	Status       string `json:"status"`
	StatusLabel  string `json:"status_label,omitempty"`
	RHStatus     string `json:"rh_status"`
	CreatedAt    string `json:"created_at"`
}
