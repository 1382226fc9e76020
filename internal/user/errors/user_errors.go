package usererrors

import (
	"net/http"

	"rh-management/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same email already exists",
		http.StatusConflict,
	)

	ErrCinAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same CIN already exists",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be one of ADMIN, HR, MANAGER, EMPLOYEE",
		http.StatusBadRequest,
	)

	ErrAdminProfileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"department and access_level are required for ADMIN",
		http.StatusBadRequest,
	)

	ErrHRProfileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"specialization and certification are required for HR",
		http.StatusBadRequest,
	)

	ErrManagerProfileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"management_level and a positive years_of_experience are required for MANAGER",
		http.StatusBadRequest,
	)

	ErrEmploymentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"employment.hire_date is required for HR, MANAGER and EMPLOYEE",
		http.StatusBadRequest,
	)

	ErrUnexpectedProfile = apperror.New(
		apperror.CodeInvalidInput,
		"profile does not match the user role",
		http.StatusBadRequest,
	)

	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrTeamNotFound = apperror.New(
		apperror.CodeNotFound,
		"Team not found",
		http.StatusNotFound,
	)

	ErrWrongPassword = apperror.New(
		apperror.CodeInvalidInput,
		"Current password is incorrect",
		http.StatusBadRequest,
	)

	ErrCannotDeleteSelf = apperror.New(
		apperror.CodeInvalidState,
		"You cannot delete your own account",
		http.StatusConflict,
	)
)
