package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Looping69/AI-Agentic-Medical/pkg/auth"
	"github.com/Looping69/AI-Agentic-Medical/pkg/logger"
)

const (
	roleKey = "auth_role"

	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
)

// CORS mirrors the permissive policy the browser dashboard relies on:
// any origin, a fixed header allow-list, and a bare "ok" preflight.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)

		if c.Request.Method == http.MethodOptions {
			c.String(http.StatusOK, "ok")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequestID tags each request's context so log records line up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.ContextWithRequestID(c.Request.Context(), uuid.NewString())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Auth resolves the bearer token to a role and rejects unknown tokens.
func Auth(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

		role, ok := authenticator.Authenticate(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		c.Set(roleKey, role)
		c.Next()
	}
}

// RequireAdmin guards administrative routes.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, ok := c.Get(roleKey); !ok || role != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}
