package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vasilestie-backend/internal/rbac"
)

// RequireCapability checks the caller's role (set by AuthMiddleware) against
// the role registry. Unknown or missing roles are denied.
func RequireCapability(capability rbac.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")

		switch rbac.Authorize(rbac.Role(role), capability) {
		case rbac.Allow:
			c.Next()
		case rbac.DenyUnauthenticated:
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Autentificare necesară",
			})
			c.Abort()
		default:
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Acces interzis: nu aveți permisiunile necesare",
			})
			c.Abort()
		}
	}
}

// RequireAdminTier restricts a route to super_admin and admin, regardless of
// individual capabilities. Used for team management and audit log access.
func RequireAdminTier() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := rbac.Role(c.GetString("role"))
		if !rbac.IsAdminTier(role) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Acces interzis: doar administratorii pot accesa această resursă",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
