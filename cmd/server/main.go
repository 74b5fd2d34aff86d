package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "geeknews/internal/domain/auth"
	_ "geeknews/internal/domain/common"
	_ "geeknews/internal/domain/feed"
	"geeknews/internal/pkg/config"
	"geeknews/internal/pkg/generator"
	"geeknews/internal/pkg/middleware"
	"geeknews/internal/pkg/notify"
	"geeknews/internal/pkg/registry"
	"geeknews/internal/pkg/worker"
	"geeknews/pkg/database"
	"geeknews/pkg/kv"
	"geeknews/pkg/logger"
	"geeknews/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title GeekNews API
// @version 1.0
// @description News and video feed with reactions and comments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()
	cfg := &config.GlobalConfig

	if err := logger.InitLogger(cfg.App.Env, cfg.App.Debug); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Log.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// 1. 基础设施
	var rdb *redis.Client
	if cfg.UseRedis() {
		var err error
		if rdb, err = database.OpenRedis(ctx, cfg.Redis); err != nil {
			return err
		}
		defer rdb.Close()
	}

	store, err := openStore(cfg, rdb)
	if err != nil {
		return err
	}

	mc := metrics.GetGlobalCollector()
	hub := notify.NewHub(64)
	defer hub.Close()

	// 2. 事件传播：有 Redis 时跨进程，否则只在本进程内
	var events notify.Publisher = hub
	if rdb != nil {
		relay := notify.NewRedisRelay(rdb, cfg.Redis.EventsChannel, hub)
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.Log.Error("event relay stopped", zap.Error(err))
			}
		}()

		pool := worker.NewWorkerPool(relay.Send, hub, 2, 256)
		pool.Start(ctx)
		defer pool.Stop()
		events = pool
	}

	// 3. HTTP
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(mc))
	r.Use(middleware.RateLimitMiddleware(cfg.Server.RateLimitQPS, cfg.Server.RateLimitBurst))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 4. 模块
	err = registry.InitModules(&registry.ModuleContext{
		Config:    cfg,
		Store:     store,
		Router:    r,
		Events:    events,
		Hub:       hub,
		Generator: generator.New(cfg.Generator, mc),
		Metrics:   mc,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// SSE 连接在 Close 时断开
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Log.Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}

// openStore 根据配置选择存储后端，所有 key 带上前缀
func openStore(cfg *config.Config, rdb *redis.Client) (kv.Store, error) {
	var store kv.Store
	switch cfg.Storage.Driver {
	case "redis":
		store = kv.NewRedisStore(rdb)
	case "postgres":
		db, err := database.OpenPostgres(cfg.Database, cfg.App.Debug)
		if err != nil {
			return nil, err
		}
		store = kv.NewSQLStore(db)
	default:
		store = kv.NewMemoryStore()
	}
	return kv.Prefixed(store, cfg.Storage.Prefix), nil
}
