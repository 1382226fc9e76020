package leave

import (
	"time"

	"rh-management/internal/balance"

	"github.com/google/uuid"
)

type LeaveRequest struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID    `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	AdminID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type       balance.Kind `gorm:"column:type;type:varchar(20);not null"`
	StartDate  time.Time    `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate    time.Time    `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	Days       int          `gorm:"not null"`
	Reason     string       `gorm:"type:text"`

	State        State  `gorm:"type:varchar(20);not null;index"`
	RejectedTier *Tier  `gorm:"type:varchar(10)"`
	Refunded     bool   `gorm:"not null;default:false"`

	DecidedRHBy    *uuid.UUID `gorm:"column:decided_rh_by;type:uuid"`
	DecidedRHAt    *time.Time `gorm:"column:decided_rh_at"`
	DecidedAdminBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAdminAt *time.Time

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveRow is a leave request joined with its owner's name for listings.
type LeaveRow struct {
	LeaveRequest      `gorm:"embedded"`
	EmployeeFirstName string
	EmployeeLastName  string
}
