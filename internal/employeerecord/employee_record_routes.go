package employeerecord

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
	records := r.Group("/employee-records")
	records.Use(middleware.AuthMiddleware())
	records.Use(middleware.ContextLogger(logger))
	{
		records.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employee_record", "read_any"),
			handler.GetAll,
		)
		records.GET("/me",
			middleware.RBACAuthorize(rbacService, "employee_record", "read"),
			handler.GetMine,
		)
		records.GET("/:id",
			middleware.RBACAuthorize(rbacService, "employee_record", "read"),
			handler.GetByID,
		)
		records.GET("/:id/pdf",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "employee_record", "read"),
			handler.DownloadPDF,
		)

		records.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "employee_record", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		records.PUT("/:id",
			middleware.RBACAuthorize(rbacService, "employee_record", "update"),
			handler.Update,
		)
	}
}
