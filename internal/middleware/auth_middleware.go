package middleware

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	autherrors "rh-management/internal/auth/errors"
	"rh-management/internal/domain"
	"rh-management/internal/shared/apperror"
	"rh-management/internal/shared/contextutil"
	"rh-management/internal/shared/response"
	"rh-management/internal/shared/token"

	"github.com/gin-gonic/gin"
)

var (
	tokensMu sync.RWMutex
	tokens   *token.Manager
)

// ConfigureTokens sets the manager used to verify access tokens. Without
// it the middleware falls back to JWT_SECRET from the environment.
func ConfigureTokens(m *token.Manager) {
	tokensMu.Lock()
	defer tokensMu.Unlock()
	tokens = m
}

func tokenManager() *token.Manager {
	tokensMu.RLock()
	defer tokensMu.RUnlock()
	if tokens != nil {
		return tokens
	}
	return token.NewManager(os.Getenv("JWT_SECRET"), 15*time.Minute, 168*time.Hour)
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		tokenString = strings.TrimSpace(tokenString)

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		claims, err := tokenManager().Parse(tokenString, token.TypeAccess)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				abortWith(c, autherrors.ErrTokenExpired)
				return
			}
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		role, ok := domain.ParseRole(claims.Role)
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", role.String())

		ctx := contextutil.WithUserID(c.Request.Context(), claims.UserID)
		ctx = contextutil.WithRole(ctx, role.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ActorFromContext returns the caller set by AuthMiddleware.
func ActorFromContext(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   c.GetString("user_id"),
		Role: domain.Role(c.GetString("role")),
	}
}
