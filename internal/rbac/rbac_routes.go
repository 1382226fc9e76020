package rbac

import (
	"rh-management/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service, logger *zap.Logger) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	group.Use(middleware.ContextLogger(logger))
	{
		group.GET("/permissions/me", middleware.RateLimitByUser(2, 5), handler.MyPermissions)
		group.POST("/enforce", middleware.RBACAuthorize(service, "rbac", "manage"), handler.Enforce)
		group.POST("/reload", middleware.RBACAuthorize(service, "rbac", "manage"), handler.Reload)
	}
}
