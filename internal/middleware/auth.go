// internal/middleware/auth.go
package middleware

import (
	"log/slog"
	"strings"

	"crediwise/internal/auth"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the JWT issued at login.
const SessionCookie = "crediwise_session"

// UserIDKey is the gin context key holding the session user id.
const UserIDKey = "user_id"

type AuthMiddleware struct {
	tokenService *auth.TokenService
}

func NewAuthMiddleware(ts *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: ts}
}

// Session resolves the caller from the session cookie or a Bearer header.
// It never rejects a request: anonymous callers pass through without a
// user id.
func (m *AuthMiddleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := sessionToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		userID, err := m.tokenService.ParseToken(tokenStr)
		if err != nil {
			slog.Debug("Ignoring invalid session", "error", err, "path", c.Request.URL.Path)
			c.Next()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
