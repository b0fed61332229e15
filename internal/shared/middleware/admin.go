package middleware

import (
	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/response"
)

// AdminMiddleware checks if user has admin role. Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role != "admin" {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
