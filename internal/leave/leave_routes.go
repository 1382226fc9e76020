package leave

import (
	"rh-management/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.ListMine,
		)

		leaves.GET("/team",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read_team"),
			handler.ListTeam,
		)

		leaves.GET("/inbox/admin",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read_admin_inbox"),
			handler.ListAdminInbox,
		)

		leaves.GET("/inbox/hr",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read_hr_inbox"),
			handler.ListHRInbox,
		)

		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetByID,
		)

		leaves.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		leaves.PATCH("/:id/rh-decision",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "leave", "decide_rh"),
			handler.DecideRH,
		)

		leaves.PATCH("/:id/admin-decision",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "leave", "decide_admin"),
			handler.DecideAdmin,
		)

		leaves.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave", "delete"),
			handler.Delete,
		)
	}
}
