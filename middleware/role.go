package middleware

import (
	"net/http"

	"pijatku/models"
	"pijatku/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets through only callers whose account has one of roles. It
// must run after JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(utils.ContextRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
	}
}
