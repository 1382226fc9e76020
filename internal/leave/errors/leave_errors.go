package leaveerrors

import (
	"net/http"

	"rh-management/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidAdminID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid admin id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrAdminNotFound = apperror.New(
		apperror.CodeNotFound,
		"designated admin not found",
		http.StatusNotFound,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave period overlaps with an existing request",
		http.StatusConflict,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to perform this action on the leave request",
		http.StatusForbidden,
	)
	ErrInvalidState = apperror.New(
		apperror.CodeInvalidState,
		"leave request cannot be decided in its current state",
		http.StatusConflict,
	)
)
