package solardata

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sunquotelabs/sunquote/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("solardata",
	fx.Provide(NewRedisClient),
	fx.Provide(NewClient),
)

// NewRedisClient connects the roof-data cache. A nil client (redis down or
// unconfigured) degrades to uncached fetches rather than failing startup.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil
	}
	return client
}
