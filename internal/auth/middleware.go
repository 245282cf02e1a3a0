package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserIDKey is the gin context key holding the authenticated user id
	ContextUserIDKey = "user_id"
	// ContextUsernameKey is the gin context key holding the authenticated username
	ContextUsernameKey = "username"

	// SessionCookie carries the access token for page navigation
	SessionCookie = "postline_session"

	// LoginURL is where anonymous callers of guarded pages are sent
	LoginURL = "/auth/login/"
)

// Identify resolves the caller's identity from the Authorization header
// or the session cookie and stores it on the context. Anonymous requests
// pass through untouched; the Require* guards decide what to do.
func (m *Manager) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie
			}
		}
		if token != "" {
			if claims, err := m.ParseAccess(token); err == nil {
				c.Set(ContextUserIDKey, claims.UserID)
				c.Set(ContextUsernameKey, claims.Username)
			}
		}
		c.Next()
	}
}

// RequirePage redirects anonymous callers to the login page. Page routes
// never answer a write attempt with an error status.
func RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.Redirect(http.StatusFound, LoginURL)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireJSON rejects anonymous callers with 401
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, if any
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// CurrentUsername returns the authenticated username, if any
func CurrentUsername(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUsernameKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
