package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tahaafzal5/zero2prod/internal/pkg/jwt"
	"github.com/tahaafzal5/zero2prod/internal/pkg/response"
)

const (
	// ContextKeyUserID carries the authenticated operator ID.
	ContextKeyUserID = "user_id"

	// SessionCookieName is the cookie issued on successful login.
	SessionCookieName = "session"
)

// Auth returns a middleware that enforces an operator session token, taken
// from the Authorization header or the session cookie.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwt.Parse(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// CurrentUserID extracts the authenticated operator ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return normalizeToken(auth)
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return normalizeToken(cookie)
	}
	return ""
}

// normalizeToken trims spaces and strips an optional Bearer prefix.
func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
