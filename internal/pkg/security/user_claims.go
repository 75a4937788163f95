package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims Token 中携带的身份信息，每个用户只有一个角色
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TTL token 剩余有效期，用于注销时设置黑名单过期时间
func (c *UserClaims) TTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
