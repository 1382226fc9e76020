package paysliperrors

import (
	"net/http"

	"rh-management/internal/shared/apperror"
)

var (
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payslip not found",
		http.StatusNotFound,
	)
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid payslip ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid month format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amounts must not be negative",
		http.StatusBadRequest,
	)
	ErrEmployeeRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee record not found",
		http.StatusNotFound,
	)
	ErrPayslipAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A payslip already exists for this employee and month",
		http.StatusConflict,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You are not allowed to access this payslip",
		http.StatusForbidden,
	)
)
