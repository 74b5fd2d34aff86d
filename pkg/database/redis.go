package database

import (
	"context"
	"fmt"
	"time"

	"geeknews/internal/pkg/config"
	"geeknews/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OpenRedis 创建 Redis 客户端并检查连通性
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		// 连接池配置
		PoolSize:     20,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}

	logger.L().Info("redis connection established", zap.String("addr", cfg.Addr))
	return rdb, nil
}
