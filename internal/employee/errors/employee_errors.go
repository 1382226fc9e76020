package employeeerrors

import (
	"net/http"

	"rh-management/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrNoLedger = apperror.New(
		apperror.CodeInvalidInput,
		"This user has no leave balance",
		http.StatusBadRequest,
	)
)
