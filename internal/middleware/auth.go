package middleware

import (
	"net/http"
	"strings"

	"scavenger-hunt-api/internal/auth"
	"scavenger-hunt-api/internal/game"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// JWTAuthMiddleware validates JWT token in Authorization header
func JWTAuthMiddleware(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		tokenString := ""
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		// Fallback for WebSocket/browser where custom headers cannot be set: allow token in query param
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		// Validate token
		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Store the caller in context for use in handlers
		c.Set(sessionKey, claims.Session())

		c.Next()
	}
}

// RequireAdmin rejects non-admin sessions. It must run after JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := GetSession(c); !ok || !sess.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession returns the authenticated caller set by JWTAuthMiddleware
func GetSession(c *gin.Context) (game.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return game.Session{}, false
	}
	sess, ok := v.(game.Session)
	return sess, ok
}

// MaxBodySize caps request bodies; larger uploads fail while being read
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Request body too large",
			})
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
