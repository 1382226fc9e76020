package payslip

import "github.com/shopspring/decimal"

type CreatePayslipRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,uuid"`
	Month       string          `json:"month" binding:"required"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
	Bonuses     decimal.Decimal `json:"bonuses"`
	Overtime    decimal.Decimal `json:"overtime"`
}

type PayslipResponse struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	EmployeeID  string          `json:"employee_id"`
	Employee    string          `json:"employee,omitempty"`
	Month       string          `json:"month"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
	Bonuses     decimal.Decimal `json:"bonuses"`
	Overtime    decimal.Decimal `json:"overtime"`
	NetSalary   decimal.Decimal `json:"net_salary"`
}
