package redis

import (
	"Toasoan/internal/pkg/consts"
	"context"
	"time"
)

// BlacklistToken 注销后的 token 签名在剩余有效期内不可再用
func BlacklistToken(ctx context.Context, signature string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, 1, ttl)
}

func IsTokenBlacklisted(ctx context.Context, signature string) (bool, error) {
	return Exists(ctx, consts.TokenBlacklistKey+signature)
}
