package middleware

import (
	"net/http"

	"investhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole refuses the request unless the role claim set by JWTAuth
// matches. It must run after JWTAuth on the same group.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly guards the back-office routes.
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
