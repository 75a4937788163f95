package middleware

import (
	"Toasoan/internal/pkg/response"
	"Toasoan/internal/policy"
	"slices"

	"github.com/gin-gonic/gin"
)

// CheckRoles 路由级粗粒度拦截，细粒度授权仍由业务层的策略判断
func CheckRoles(requiredRoles ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller.IsAnonymous() {
			response.Error(c, policy.ErrUnauthenticated)
			c.Abort()
			return
		}
		if !slices.Contains(requiredRoles, caller.Role) {
			response.Error(c, policy.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
