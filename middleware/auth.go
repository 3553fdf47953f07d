package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/utils"
)

// AuthMiddleware 认证中间件。从配置指定的请求头中取JWT令牌，校验通过后把
// 用户ID绑定到当前请求的上下文，请求结束随上下文一起释放。
func AuthMiddleware(tokenHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(tokenHeader)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未提供认证信息"})
			return
		}

		// 处理Bearer前缀
		tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未提供认证信息"})
			return
		}

		// 解析 JWT
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			config.Logger.Warnw("JWT校验失败", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的认证信息"})
			return
		}

		// 将 uid 存储在 gin.Context 中
		c.Set("uid", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// CurrentUserID 从请求上下文中取当前用户ID
func CurrentUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get("uid")
	if !exists {
		return 0, false
	}
	uid, ok := v.(uint64)
	return uid, ok
}
