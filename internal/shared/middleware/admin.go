package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/response"
)

// AdminMiddleware checks if user has admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get role from context (set by AuthMiddleware)
		role, ok := c.Get(CtxRole)
		if !ok || role != "admin" {
			response.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
