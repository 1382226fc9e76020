package user

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
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	users.Use(middleware.ContextLogger(logger))
	{
		users.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.GetAll,
		)

		// Any authenticated user picks an admin when filing a leave request.
		users.GET("/admins/options",
			middleware.RateLimitByUser(3, 10),
			handler.GetAdminOptions,
		)

		users.PATCH("/me/password",
			middleware.RateLimitByUser(0.5, 2),
			handler.ChangePassword,
		)

		users.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.GetByID,
		)

		users.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", "create"),
			handler.Create,
		)

		users.PUT("/:id",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "user", "update"),
			handler.Update,
		)

		users.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", "delete"),
			handler.Delete,
		)

		users.PATCH("/:id/status",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", "update"),
			handler.ToggleStatus,
		)

		users.POST("/:id/force-reset-password",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", "update"),
			handler.ForceResetPassword,
		)
	}
}
