package middleware

import (
	"rh-management/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger puts a request logger on the request context. Run it after
// AuthMiddleware so the caller's id and role are included.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := resolveRequestID(c)
		c.Header(RequestIDHeader, rid)

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		if uid := c.GetString("user_id"); uid != "" {
			ctx = contextutil.WithUserID(ctx, uid)
		}
		reqLogger := logger.With(contextutil.ExtractMetadata(ctx).Fields()...)
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))

		c.Next()
	}
}
