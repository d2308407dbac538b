package initializers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is nil when REDIS_ADDR is not configured.
var Redis *redis.Client

func ConnectToRedis(ctx context.Context) error {
	if Cfg.RedisAddr == "" {
		slog.Info("redis not configured, rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     Cfg.RedisAddr,
		Password: Cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", Cfg.RedisAddr, err)
	}

	Redis = client
	slog.Info("connected to redis", "addr", Cfg.RedisAddr)
	return nil
}
