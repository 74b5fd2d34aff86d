package registry

import (
	"sort"

	"geeknews/internal/pkg/config"
	"geeknews/internal/pkg/generator"
	"geeknews/internal/pkg/notify"
	"geeknews/pkg/kv"
	"geeknews/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	Config    *config.Config
	Store     kv.Store
	Router    *gin.Engine
	Events    notify.Publisher
	Hub       *notify.Hub
	Generator generator.Generator
	Metrics   *metrics.MetricsCollector
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules 按优先级初始化所有模块，优先级相同时按名称排序
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}

	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
	}

	return nil
}
