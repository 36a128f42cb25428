package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/security"
)

const (
	ContextUserID = "auth_user_id"
	ContextRole   = "auth_role"
)

// Auth resolves the request principal from a bearer token and stores
// (user id, role) in the gin context. Token issuance happens in the
// external auth service; this middleware only verifies.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := security.ValidateJWT(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireStaff rejects requests whose principal lacks a moderation
// role. Runs after Auth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if !models.IsStaff(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// Principal reads the resolved (user id, role) pair from the context.
func Principal(c *gin.Context) (uint, string) {
	userID, _ := c.Get(ContextUserID)
	id, _ := userID.(uint)
	return id, c.GetString(ContextRole)
}
