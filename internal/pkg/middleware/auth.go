package middleware

import (
	"net/http"
	"strings"

	"geeknews/internal/domain/auth/model"
	"geeknews/pkg/response"
	"geeknews/pkg/utils"

	"github.com/gin-gonic/gin"
)

// 上下文中保存当前用户的 key
const (
	ContextUsername = "username"
	ContextRole     = "role"
)

// AuthMiddleware JWT认证中间件
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Authorization header is required")
			c.Abort()
			return
		}

		claims, ok := parseBearer(secret, authHeader)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// OptionalAuth 带有效 token 时写入当前用户，否则按游客继续
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(secret, c.GetHeader("Authorization")); ok {
			setUser(c, claims)
		}
		c.Next()
	}
}

// AdminMiddleware 管理员权限中间件，需在 AuthMiddleware 之后使用
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Admin permission required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser 读取认证中间件写入的用户
func CurrentUser(c *gin.Context) (model.User, bool) {
	username := c.GetString(ContextUsername)
	if username == "" {
		return model.Guest(), false
	}
	return model.User{
		Username: username,
		Role:     model.Role(c.GetString(ContextRole)),
	}, true
}

// parseBearer 检查格式 "Bearer <token>" 并解析
func parseBearer(secret, header string) (*utils.Claims, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, false
	}

	claims, err := utils.ParseToken(secret, parts[1])
	if err != nil || claims.Username == "" {
		return nil, false
	}
	return claims, true
}

func setUser(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
}
