package statistic

import (
	"rh-management/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, logger *zap.Logger) {
	stats := r.Group("/statistics")
	stats.Use(middleware.AuthMiddleware())
	stats.Use(middleware.ContextLogger(logger))
	{
		stats.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "statistic", "read"),
			handler.Dashboard,
		)
	}
}
