package auth

import (
	"net/http"
	"strings"
	"time"

	"rh-management/internal/shared/apperror"
	"rh-management/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service    Service
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *zap.Logger
}

func NewHandler(s Service, secureCookies bool, accessTTL, refreshTTL time.Duration, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, secure: secureCookies, accessTTL: accessTTL, refreshTTL: refreshTTL, logger: l}
}

// isWebClient decides whether tokens travel in cookies. Mobile and CLI
// clients send X-Client-Type and read tokens from the body.
func isWebClient(c *gin.Context) bool {
	switch strings.ToLower(c.GetHeader("X-Client-Type")) {
	case "web":
		return true
	case "mobile", "cli", "api":
		return false
	}
	return strings.Contains(c.GetHeader("User-Agent"), "Mozilla")
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) writeTokens(c *gin.Context, pair TokenPair, userResp AuthResponse) {
	if isWebClient(c) {
		h.setCookie(c, "access_token", pair.AccessToken, int(h.accessTTL.Seconds()))
		h.setCookie(c, "refresh_token", pair.RefreshToken, int(h.refreshTTL.Seconds()))
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":          userResp,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, nil)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", apperror.MapValidationError(err))
		return
	}

	pair, userResp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writeTokens(c, pair, userResp)
}

func (h *Handler) Me(c *gin.Context) {
	userResp, err := h.service.GetMe(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, userResp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, "access_token", "", -1)
	h.setCookie(c, "refresh_token", "", -1)

	response.Success(c, http.StatusOK, "Logout success.", nil)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var refreshToken string
	if isWebClient(c) {
		refreshToken, _ = c.Cookie("refresh_token")
	}
	if refreshToken == "" {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Refresh token is required", nil)
			return
		}
		refreshToken = req.RefreshToken
	}

	pair, userResp, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writeTokens(c, pair, userResp)
}
