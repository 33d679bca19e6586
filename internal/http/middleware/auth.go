package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

type contextKey string

const (
	SessionCookieName = "portal_session"
	SessionIDHeader   = "X-Session-ID"
	AdminAPIKeyHeader = "X-Admin-API-Key"

	userContextKey      contextKey = "user"
	sessionIDContextKey contextKey = "session_id"
)

// RequireAuth resolves the session from the cookie or the X-Session-ID header
// and aborts with 401 when there is none.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := SessionID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated", "code": "unauthenticated"})
			return
		}

		user, err := authService.ValidateSession(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserNotFound) {
				ClearSessionCookie(c, false)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired", "code": "session_expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session", "code": "internal"})
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user, sessionID))
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid session exists but never aborts.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := SessionID(c)
		if err != nil {
			c.Next()
			return
		}

		user, err := authService.ValidateSession(c.Request.Context(), sessionID)
		if err != nil {
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user, sessionID))
		c.Next()
	}
}

// RequireAdminAPIKey guards operator endpoints. The key is read from
// X-Admin-API-Key or a bearer Authorization header.
func RequireAdminAPIKey(adminAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminAPIKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin API not configured", "code": "admin_disabled"})
			return
		}

		apiKey := c.GetHeader(AdminAPIKeyHeader)
		if apiKey == "" {
			apiKey = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(adminAPIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key", "code": "unauthenticated"})
			return
		}

		c.Next()
	}
}

// WithUser attaches the authenticated user and session id to ctx.
func WithUser(ctx context.Context, user *model.User, sessionID int64) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	ctx = context.WithValue(ctx, sessionIDContextKey, sessionID)
	return logger.WithLogFields(ctx, logger.LogFields{UserID: &user.ID})
}

func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

func GetSessionID(ctx context.Context) int64 {
	sessionID, _ := ctx.Value(sessionIDContextKey).(int64)
	return sessionID
}

// SessionID reads the session id from the cookie, falling back to the header.
func SessionID(c *gin.Context) (int64, error) {
	raw, err := c.Cookie(SessionCookieName)
	if err != nil || raw == "" {
		raw = c.GetHeader(SessionIDHeader)
	}
	if raw == "" {
		return 0, http.ErrNoCookie
	}
	return strconv.ParseInt(raw, 10, 64)
}

func SetSessionCookie(c *gin.Context, sessionID int64, maxAge int, secure bool) {
	c.SetCookie(
		SessionCookieName,
		strconv.FormatInt(sessionID, 10),
		maxAge,
		"/",
		"",
		secure,
		true,
	)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
