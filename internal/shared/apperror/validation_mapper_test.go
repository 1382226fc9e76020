package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"rh-management/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type createBody struct {
	HireDate string `json:"hire_date" binding:"required"`
}

type listQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE ON_LEAVE"`
}

func mapped(t *testing.T, v any) *apperror.AppError {
	t.Helper()
	apperror.Init()
	apperror.Init()

	err := apperror.MapValidationError(binding.Validator.ValidateStruct(v))

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	return appErr
}

func TestMapValidationError(t *testing.T) {
	t.Run("required json field uses wire name", func(t *testing.T) {
		got := mapped(t, &createBody{})

		assert.Equal(t, apperror.CodeValidation, got.Code)
		assert.Equal(t, "Hire Date is required", got.Message)
		assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	})

	t.Run("query field falls back to form tag", func(t *testing.T) {
		got := mapped(t, &listQuery{Status: "FIRED"})

		assert.Equal(t, "Status is invalid", got.Message)
	})

	t.Run("non validation error", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("unexpected EOF"))

		assert.ErrorContains(t, err, "Invalid input")
	})
}
