package payslip

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
	payslips := r.Group("/payslips")
	payslips.Use(middleware.AuthMiddleware())
	payslips.Use(middleware.ContextLogger(logger))
	{
		payslips.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "payslip", "read"),
			handler.ListMine,
		)

		payslips.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "payslip", "read"),
			handler.GetByID,
		)

		payslips.GET("/:id/pdf",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "payslip", "read"),
			handler.DownloadPDF,
		)

		payslips.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "payslip", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
	}
}
