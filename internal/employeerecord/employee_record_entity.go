package employeerecord

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusOnLeave Status = "ON_LEAVE"
)

func ParseStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusActive, StatusOnLeave:
		return Status(v), true
	}
	return "", false
}

// EmployeeRecord is the HR file kept alongside a user. There is at most
// one per employee.
type EmployeeRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_employee_records_employee"`
	Telephone   string          `gorm:"type:varchar(30);not null"`
	Address     string          `gorm:"type:text;not null"`
	Birthday    time.Time       `gorm:"type:date;not null"`
	Position    string          `gorm:"type:varchar(100);not null"`
	Profile     string          `gorm:"type:text;not null"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	GrossSalary decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CVPath      string          `gorm:"column:cv_path;type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EmployeeRecord) TableName() string {
	return "employee_records"
}

// RecordRow joins a record with the identity columns of its employee.
type RecordRow struct {
	EmployeeRecord `gorm:"embedded"`
	FirstName      string
	LastName       string
	Email          string
	HireDate       *time.Time
	Picture        *string
}

func (r RecordRow) FullName() string {
	return r.FirstName + " " + r.LastName
}
