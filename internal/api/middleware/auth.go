package middleware

import (
	"Toasoan/internal/pkg/bizerr"
	"Toasoan/internal/pkg/redis"
	"Toasoan/internal/pkg/response"
	"Toasoan/internal/pkg/security"
	"Toasoan/internal/policy"
	"context"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	callerKey = "caller"
	tokenKey  = "token"
)

// CallerResolver 按用户 ID 取当前角色，角色以数据库为准而不是 token 里的快照
type CallerResolver interface {
	ResolveCaller(ctx context.Context, id uint64) (policy.Caller, error)
}

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, "Thiếu token hoặc sai định dạng")
			c.Abort()
			return
		}

		caller, err := authenticate(c.Request.Context(), resolver, tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		setCaller(c, caller, tokenString)
		c.Next()
	}
}

var errTokenInvalid = bizerr.New(bizerr.KindUnauthenticated, "Token không hợp lệ hoặc đã hết hạn")

// authenticate 校验签名与黑名单，再按库中角色构造调用方
func authenticate(ctx context.Context, resolver CallerResolver, tokenString string) (policy.Caller, error) {
	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return policy.Anonymous(), errTokenInvalid
	}
	blocked, err := redis.IsTokenBlacklisted(ctx, signature)
	if err != nil {
		log.WarnContext(ctx, "check token blacklist failed", "err", err)
		return policy.Anonymous(), err
	}
	if blocked {
		return policy.Anonymous(), errTokenInvalid
	}

	claims, err := security.ValidateToken(tokenString)
	if err != nil {
		return policy.Anonymous(), errTokenInvalid
	}
	caller, err := resolver.ResolveCaller(ctx, claims.UserID)
	if err != nil {
		// 用户已被删除
		return policy.Anonymous(), errTokenInvalid
	}
	return caller, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func setCaller(c *gin.Context, caller policy.Caller, token string) {
	c.Set(callerKey, caller)
	c.Set("user_id", caller.ID)
	c.Set("role", caller.Role.String())
	if token != "" {
		c.Set(tokenKey, token)
	}
}

// CallerFrom 未经过鉴权中间件时视为匿名
func CallerFrom(c *gin.Context) policy.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(policy.Caller); ok {
			return caller
		}
	}
	return policy.Anonymous()
}

// TokenFrom 当前请求携带的 token，供登出使用
func TokenFrom(c *gin.Context) string {
	return c.GetString(tokenKey)
}
