package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// RoleKey is the context key for the caller's role
	RoleKey = "role"
	// RoleHeader is the HTTP header carrying the caller's role.
	// The value is issued by the authentication collaborator and treated
	// as an opaque string here.
	RoleHeader = "X-User-Role"
	// DefaultRole is assumed when no role header is present.
	DefaultRole = "user1"
)

// Role extracts the caller's role from the request headers and stores it
// in the Gin context for handlers to use.
func Role() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(RoleHeader)
		if role == "" {
			role = DefaultRole
		}

		c.Set(RoleKey, role)

		c.Next()
	}
}

// GetRole retrieves the caller's role from the Gin context.
// Returns DefaultRole if not found.
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(RoleKey); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return DefaultRole
}
