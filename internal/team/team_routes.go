package team

import (
	"rh-management/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	teams := r.Group("/teams")
	teams.Use(middleware.AuthMiddleware())
	teams.Use(middleware.ContextLogger(logger))
	{
		teams.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "team", "read"),
			handler.GetAll,
		)

		teams.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "team", "read"),
			handler.GetMyTeam,
		)

		teams.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "team", "read"),
			handler.GetByID,
		)

		teams.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "team", "create"),
			handler.Create,
		)

		teams.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "team", "update"),
			handler.Update,
		)

		teams.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "team", "delete"),
			handler.Delete,
		)

		teams.POST("/:id/employees",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "team", "manage_members"),
			handler.AddEmployees,
		)
	}
}
