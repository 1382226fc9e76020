package leave

import (
	"net/http"

	"rh-management/internal/middleware"
	"rh-management/internal/shared/apperror"
	"rh-management/internal/shared/pagination"
	"rh-management/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("http leave validation failed", zap.Error(err))
	response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", apperror.MapValidationError(err))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

type listFunc func(c *gin.Context, f ListFilter) ([]LeaveResponse, int64, error)

func (h *Handler) list(c *gin.Context, fn listFunc) {
	f := ListFilter{Query: pagination.FromContext(c)}

	resp, total, err := fn(c, f)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, f.Page, f.PageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) ListMine(c *gin.Context) {
	h.list(c, func(c *gin.Context, f ListFilter) ([]LeaveResponse, int64, error) {
		return h.service.ListMine(c.Request.Context(), middleware.ActorFromContext(c), f)
	})
}

func (h *Handler) ListTeam(c *gin.Context) {
	h.list(c, func(c *gin.Context, f ListFilter) ([]LeaveResponse, int64, error) {
		return h.service.ListTeam(c.Request.Context(), middleware.ActorFromContext(c), f)
	})
}

func (h *Handler) ListAdminInbox(c *gin.Context) {
	h.list(c, func(c *gin.Context, f ListFilter) ([]LeaveResponse, int64, error) {
		return h.service.ListAdminInbox(c.Request.Context(), middleware.ActorFromContext(c), f)
	})
}

func (h *Handler) ListHRInbox(c *gin.Context) {
	h.list(c, func(c *gin.Context, f ListFilter) ([]LeaveResponse, int64, error) {
		return h.service.ListHRInbox(c.Request.Context(), f)
	})
}

func (h *Handler) DecideRH(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.DecideRH(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DecideAdmin(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.DecideAdmin(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
