package idempotency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/guidee/internal/config"
)

// Module exposes the webhook delivery store to fx graph.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newStore(p storeParams) Store {
	if p.Config.RedisAddress == "" {
		p.Logger.Info("redis address not set, webhook de-duplication relies on order state only")
		return NoopStore{}
	}

	client := redis.NewClient(&redis.Options{Addr: p.Config.RedisAddress})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping redis: %w", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewRedisStore(client)
}
