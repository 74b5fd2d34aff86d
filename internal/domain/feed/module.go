package feed

import (
	"context"

	"geeknews/internal/domain/feed/handler"
	"geeknews/internal/domain/feed/repository"
	"geeknews/internal/domain/feed/service"
	"geeknews/internal/pkg/middleware"
	"geeknews/internal/pkg/registry"
	"geeknews/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeedModule 内容流模块
type FeedModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&FeedModule{})
}

func (m *FeedModule) Name() string {
	return "feed"
}

func (m *FeedModule) Priority() int {
	// 依赖 auth 模块签发的 token
	return 2
}

func (m *FeedModule) Init(ctx *registry.ModuleContext) error {
	cfg := ctx.Config

	// 1. 依赖注入
	feedRepo := repository.NewFeedRepository(ctx.Store)
	feedService := service.NewFeedService(feedRepo, service.Options{
		Rules: service.CommentRules{
			MinLength: cfg.Feed.CommentMinLength,
			MaxLength: cfg.Feed.CommentMaxLength,
			Interval:  cfg.Feed.CommentInterval,
		},
		Events:  ctx.Events,
		Metrics: ctx.Metrics,
	})
	publisher := service.NewContentPublisher(feedService, ctx.Generator, nil)

	if cfg.Feed.SeedOnStart {
		items, err := feedService.ListContent(context.Background())
		if err != nil {
			return err
		}
		logger.L().Info("feed content ready", zap.Int("items", len(items)))
	}

	routes := routes{
		feed:   handler.NewFeedHandler(feedService),
		admin:  handler.NewAdminHandler(publisher),
		stream: handler.NewStreamHandler(ctx.Hub, ctx.Metrics, 0),
		secret: cfg.JWT.Secret,
	}

	// 2. 路由注册
	routes.setup(ctx.Router)

	return nil
}

type routes struct {
	feed   *handler.FeedHandler
	admin  *handler.AdminHandler
	stream *handler.StreamHandler
	secret string
}

func (rt routes) setup(r *gin.Engine) {
	optional := middleware.OptionalAuth(rt.secret)
	required := middleware.AuthMiddleware(rt.secret)

	feedGroup := r.Group("/api/v1/feed")
	{
		feedGroup.GET("", optional, rt.feed.ListFeed)
		feedGroup.GET("/stream", rt.stream.Stream)
		feedGroup.GET("/:id", optional, rt.feed.GetContent)
		feedGroup.GET("/:id/comments", rt.feed.GetComments)
		feedGroup.POST("/:id/comments", required, rt.feed.PostComment)
		feedGroup.GET("/:id/reactions", optional, rt.feed.GetReactions)
		feedGroup.PUT("/:id/reactions", required, rt.feed.SetReaction)
	}

	adminGroup := r.Group("/api/v1/admin")
	adminGroup.Use(required, middleware.AdminMiddleware())
	{
		adminGroup.POST("/content", rt.admin.Publish)
		adminGroup.POST("/draft", rt.admin.Draft)
	}
}
