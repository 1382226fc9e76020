package middleware

import (
	"rh-management/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	maxRequestIDLen = 64
)

// RequestID adopts the caller's X-Request-ID when it is a plausible token
// and mints a UUID otherwise. The id is echoed back and stored on both the
// gin and request contexts.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := resolveRequestID(c)
		c.Set(requestIDKey, rid)
		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

func resolveRequestID(c *gin.Context) string {
	if rid := c.GetString(requestIDKey); rid != "" {
		return rid
	}
	if rid := c.GetHeader(RequestIDHeader); validRequestID(rid) {
		return rid
	}
	return uuid.NewString()
}

// Only [A-Za-z0-9._-] so the id is safe to log and forward in headers.
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for _, r := range rid {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
