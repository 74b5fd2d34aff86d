package common

import (
	_ "geeknews/docs"
	commonHandler "geeknews/internal/pkg/common"
	"geeknews/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// CommonModule 健康检查、指标与接口文档
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	setupRoutes(ctx.Router, ctx)
	return nil
}

func setupRoutes(r *gin.Engine, ctx *registry.ModuleContext) {
	r.GET("/healthz", commonHandler.HealthHandler(ctx.Store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 生产环境不暴露接口文档
	if ctx.Config == nil || ctx.Config.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
