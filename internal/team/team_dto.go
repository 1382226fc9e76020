package team

import "rh-management/internal/employee"

type CreateTeamRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
	ManagerID string `json:"manager_id" binding:"required,uuid"`
}

type UpdateTeamRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
	ManagerID string `json:"manager_id" binding:"required,uuid"`
}

type AddEmployeesRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
}

type TeamResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	ManagerID string `json:"manager_id"`
	CreatedAt string `json:"created_at"`
}

type TeamDetailResponse struct {
	TeamResponse
	Members []employee.EmployeeResponse `json:"members"`
}
