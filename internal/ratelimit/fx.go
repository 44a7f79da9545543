package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/waslahq/wasla/internal/clock"
	"github.com/waslahq/wasla/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func provideStore(client *redis.Client, clk clock.Clock, log *zap.Logger) Store {
	if client != nil {
		log.Info("throttle store: redis")
		return NewRedisStore(client, clk)
	}
	log.Info("throttle store: memory")
	return NewMemoryStore(clk)
}

var Module = fx.Module("ratelimit",
	fx.Provide(
		provideRedisClient,
		provideStore,
	),
)
