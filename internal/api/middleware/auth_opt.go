package middleware

import (
	"Toasoan/internal/policy"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入调用方，失败或缺失则为匿名
func AuthOptionalMiddleware(resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			setCaller(c, policy.Anonymous(), "")
			c.Next()
			return
		}

		caller, err := authenticate(c.Request.Context(), resolver, tokenString)
		if err != nil {
			setCaller(c, policy.Anonymous(), "")
		} else {
			setCaller(c, caller, tokenString)
		}

		c.Next()
	}
}
