package rbac

import (
	"net/http"
	"strings"

	"rh-management/internal/domain"
	"rh-management/internal/shared/apperror"
	"rh-management/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", apperror.MapValidationError(err))
		return
	}

	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.Enforce(req)
	if err != nil {
		h.logger.Error("http rbac enforce failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

// MyPermissions lists what the caller's role may do, for the frontend to
// hide actions up front.
func (h *Handler) MyPermissions(c *gin.Context) {
	role, ok := domain.ParseRole(c.GetString("role"))
	if !ok {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "Unknown role", nil)
		return
	}

	perms, err := h.service.ListPermissions(role)
	if err != nil {
		h.logger.Error("http rbac list permissions failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, perms, nil)
}

func (h *Handler) Reload(c *gin.Context) {
	if err := h.service.LoadPolicy(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reloaded": true}, nil)
}
