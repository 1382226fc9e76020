package user

type AdminProfileRequest struct {
	Department  string `json:"department" binding:"required"`
	AccessLevel string `json:"access_level" binding:"required"`
}

type HRProfileRequest struct {
	Specialization string `json:"specialization" binding:"required"`
	Certification  string `json:"certification" binding:"required"`
}

type ManagerProfileRequest struct {
	ManagementLevel   string `json:"management_level" binding:"required"`
	YearsOfExperience int    `json:"years_of_experience" binding:"required,gt=0"`
}

type EmploymentRequest struct {
	HireDate string  `json:"hire_date" binding:"required"`
	TeamID   *string `json:"team_id" binding:"omitempty,uuid"`
}

type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Cin       string `json:"cin" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Picture   string `json:"picture"`
	Role      string `json:"role" binding:"required,oneof=ADMIN HR MANAGER EMPLOYEE"`

	Admin      *AdminProfileRequest   `json:"admin"`
	HR         *HRProfileRequest      `json:"hr"`
	Manager    *ManagerProfileRequest `json:"manager"`
	Employment *EmploymentRequest     `json:"employment"`
}

type UpdateUserRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Picture   string `json:"picture"`

	Admin   *AdminProfileRequest   `json:"admin"`
	HR      *HRProfileRequest      `json:"hr"`
	Manager *ManagerProfileRequest `json:"manager"`
	TeamID  *string                `json:"team_id" binding:"omitempty,uuid"`
}

type UpdateUserStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type ForceResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Cin       string `json:"cin"`
	Email     string `json:"email"`
	Picture   string `json:"picture,omitempty"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`

	Department        *string `json:"department,omitempty"`
	AccessLevel       *string `json:"access_level,omitempty"`
	Specialization    *string `json:"specialization,omitempty"`
	Certification     *string `json:"certification,omitempty"`
	ManagementLevel   *string `json:"management_level,omitempty"`
	YearsOfExperience *int    `json:"years_of_experience,omitempty"`

	HireDate          string `json:"hire_date,omitempty"`
	TeamID            string `json:"team_id,omitempty"`
	HolidayBalance    *int   `json:"holiday_balance,omitempty"`
	PermissionBalance *int   `json:"permission_balance,omitempty"`

	CreatedAt string `json:"created_at"`
}

type OptionResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
