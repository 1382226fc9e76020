package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.GetAll,
		)

		employees.GET("/me/balance",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "balance", "read"),
			handler.GetMyBalance,
		)

		employees.GET("/:id/balance",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "balance", "read_any"),
			handler.GetBalance,
		)
	}
}
