package payslip

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payslip amounts are stored with two decimal places. Month is always the
// first day of the pay month.
type Payslip struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payslips_employee_month"`
	Month       time.Time       `gorm:"type:date;not null;uniqueIndex:uq_payslips_employee_month"`
	Reference   string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	GrossSalary decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Bonuses     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Overtime    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	NetSalary   decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Payslip) TableName() string {
	return "payslips"
}

type PayslipRow struct {
	Payslip   `gorm:"embedded"`
	FirstName string
	LastName  string
	Email     string
	Position  *string
}

func (r PayslipRow) FullName() string {
	return r.FirstName + " " + r.LastName
}
