package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"geeknews/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRelay 通过 Redis Pub/Sub 在多个进程之间传播事件
// 本进程发布的事件同样经由 Redis 回到本地 Hub，避免重复投递
type RedisRelay struct {
	client  redis.UniversalClient
	channel string
	local   *Hub
}

func NewRedisRelay(client redis.UniversalClient, channel string, local *Hub) *RedisRelay {
	return &RedisRelay{client: client, channel: channel, local: local}
}

// Publish Redis 不可用时退化为仅本进程投递
func (r *RedisRelay) Publish(ctx context.Context, ev Event) {
	if err := r.Send(ctx, ev); err != nil {
		logger.L().Warn("publish event to redis failed, delivering locally",
			zap.String("channel", r.channel), zap.Error(err))
		r.local.Publish(ctx, ev)
	}
}

// Send 只发布到 Redis，由调用方决定失败后的处理
func (r *RedisRelay) Send(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", r.channel, err)
	}
	return nil
}

// Run 订阅 Redis 频道并转发到本地 Hub，直到 ctx 结束
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to redis: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.L().Warn("unmarshal event from redis",
					zap.String("channel", r.channel), zap.Error(err))
				continue
			}
			r.local.Publish(ctx, ev)
		}
	}
}
