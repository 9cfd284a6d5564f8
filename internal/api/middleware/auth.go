package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dogacademy/academy_go_server/internal/pkg/jwt"
	"github.com/dogacademy/academy_go_server/internal/pkg/response"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Auth 解析 Authorization 头中的 Bearer Token，注入用户 ID 与角色
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AuthError(c, "缺少认证信息")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.AuthError(c, "认证头格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(parts[1], secret)
		if err != nil {
			if err == jwt.ErrExpiredToken {
				response.AuthError(c, "登录已过期，请重新登录")
			} else {
				response.AuthError(c, "认证失败")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole 角色守卫，限定接口只允许给定角色访问
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.PermissionError(c, "")
		c.Abort()
	}
}

// GetUserID 读取当前登录用户 ID
func GetUserID(c *gin.Context) int64 {
	if v, exists := c.Get(UserIDKey); exists {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// GetRole 读取当前登录用户角色
func GetRole(c *gin.Context) string {
	if v, exists := c.Get(RoleKey); exists {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
