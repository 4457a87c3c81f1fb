package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleRequired rejects requests whose authenticated role is not in the
// allowed set. TokenRequired must run earlier in the chain.
func RoleRequired(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		roleVal, exists := c.Get(CtxRole)
		if !exists {
			abortJSON(c, http.StatusUnauthorized, "authentication required")
			return
		}
		role, ok := roleVal.(string)
		if !ok || !allowed[role] {
			abortJSON(c, http.StatusForbidden, "insufficient privileges")
			return
		}
		c.Next()
	}
}
