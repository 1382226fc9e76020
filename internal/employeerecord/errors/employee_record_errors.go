package employeerecorderrors

import (
	"net/http"

	"rh-management/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee record not found",
		http.StatusNotFound,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee record id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrRecordAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee already has a record",
		http.StatusConflict,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid birthday format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidSalary = apperror.New(
		apperror.CodeInvalidInput,
		"gross salary must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be ACTIVE or ON_LEAVE",
		http.StatusBadRequest,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to read this employee record",
		http.StatusForbidden,
	)
)
