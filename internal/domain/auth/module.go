package auth

import (
	"time"

	"geeknews/internal/domain/auth/handler"
	"geeknews/internal/domain/auth/service"
	"geeknews/internal/pkg/middleware"
	"geeknews/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AuthModule 认证模块
type AuthModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&AuthModule{})
}

func (m *AuthModule) Name() string {
	return "auth"
}

func (m *AuthModule) Priority() int {
	return 1
}

func (m *AuthModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	jwtCfg := ctx.Config.JWT
	authService := service.NewAuthService(jwtCfg.Secret, time.Duration(jwtCfg.Expire)*time.Hour)
	authHandler := handler.NewAuthHandler(authService)

	// 2. 路由注册
	setupRoutes(ctx.Router, authHandler, jwtCfg.Secret)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AuthHandler, secret string) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", middleware.AuthMiddleware(secret), h.Me)
	}
}
