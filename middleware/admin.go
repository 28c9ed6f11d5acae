package middleware

import (
	"postboard/models"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates admin routes. Must run after AuthMiddleware. The role
// checked here comes from the token; the services re-check policy with the
// same principal, so a stale token cannot widen what the core allows.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			HTTPHelper.SendUnauthorizedError(c, "User role not found", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		if roleStr, ok := role.(string); !ok || roleStr != string(models.RoleAdmin) {
			HTTPHelper.SendForbiddenError(c, "Admin privileges required", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		c.Next()
	}
}
