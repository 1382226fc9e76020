package balanceerrors

import (
	"net/http"

	"rh-management/internal/shared/apperror"
)

var (
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"leave type must be HOLIDAY or PERMISSION",
		http.StatusBadRequest,
	)
	ErrNegativeDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
)
