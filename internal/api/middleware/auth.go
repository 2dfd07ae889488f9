package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/logger"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

const claimsKey = "auth_claims"

// TokenVerifier 由 service.TokenService 实现
type TokenVerifier interface {
	Verify(token string) (*service.Claims, error)
}

// Auth 要求请求携带 Authorization: Bearer <token>，校验通过后把 claims 放入上下文
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	if verifier == nil {
		panic("token verifier cannot be nil for Auth middleware")
	}
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "Authentication required")
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logger.Warn("auth: rejected token",
				zap.Error(err),
				zap.String("path", c.FullPath()),
				zap.String("request_id", c.GetString(requestIDKey)),
			)
			response.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext 取出 Auth 中间件写入的 claims
func ClaimsFromContext(c *gin.Context) (*service.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
