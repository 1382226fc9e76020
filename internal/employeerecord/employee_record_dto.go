package employeerecord

import "github.com/shopspring/decimal"

type CreateRecordRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,uuid"`
	Telephone   string          `json:"telephone" binding:"required,max=30"`
	Address     string          `json:"address" binding:"required"`
	Birthday    string          `json:"birthday" binding:"required"`
	Position    string          `json:"position" binding:"required,max=100"`
	Profile     string          `json:"profile" binding:"required"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
	CVPath      string          `json:"cv_path"`
}

// UpdateRecordRequest leaves fields that are nil untouched.
type UpdateRecordRequest struct {
	Telephone   *string          `json:"telephone" binding:"omitempty,max=30"`
	Address     *string          `json:"address"`
	Birthday    *string          `json:"birthday"`
	Position    *string          `json:"position" binding:"omitempty,max=100"`
	Profile     *string          `json:"profile"`
	Status      *string          `json:"status" binding:"omitempty,oneof=ACTIVE ON_LEAVE"`
	GrossSalary *decimal.Decimal `json:"gross_salary"`
	CVPath      *string          `json:"cv_path"`
}

type EmployeeSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	HireDate  string `json:"hire_date,omitempty"`
	Picture   string `json:"picture,omitempty"`
}

type RecordResponse struct {
	ID          string           `json:"id"`
	Telephone   string           `json:"telephone"`
	Address     string           `json:"address"`
	Birthday    string           `json:"birthday"`
	Position    string           `json:"position"`
	Profile     string           `json:"profile"`
	Status      string           `json:"status"`
	StatusLabel string           `json:"status_label,omitempty"`
	GrossSalary *decimal.Decimal `json:"gross_salary,omitempty"`
	CVPath      string           `json:"cv_path,omitempty"`
	Employee    EmployeeSummary  `json:"employee"`
}
