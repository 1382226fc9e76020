package employee

type EmployeeResponse struct {
	ID                string `json:"id"`
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	HireDate          string `json:"hire_date,omitempty"`
	TeamID            string `json:"team_id,omitempty"`
	HolidayBalance    int    `json:"holiday_balance"`
	PermissionBalance int    `json:"permission_balance"`
}

type BalanceResponse struct {
	EmployeeID        string `json:"employee_id"`
	FullName          string `json:"full_name"`
	HolidayBalance    int    `json:"holiday_balance"`
	PermissionBalance int    `json:"permission_balance"`
	LastAccrualMonth  string `json:"last_accrual_month,omitempty"`
}
