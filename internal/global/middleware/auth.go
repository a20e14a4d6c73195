package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"crop-tracking-system/internal/global/jwt"
	"crop-tracking-system/internal/global/response"
)

// Auth 解析 Bearer 令牌并把用户信息放进上下文
// 只负责认证；资源级权限统一走 policy 包，不在这里做角色分流
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取 Authorization 头
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		// 检查 Bearer 前缀并提取 token
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		// 解析 token
		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		c.Set("payload", payload)
		c.Next()
	}
}
