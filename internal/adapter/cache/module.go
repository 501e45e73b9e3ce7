package cache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/bricklane/storefront/internal/config"
)

// Module exposes the cache implementation to the fx graph.
var Module = fx.Options(
	fx.Provide(newCache),
	fx.Invoke(registerLifecycle),
)

type cacheParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newCache(p cacheParams) (Cache, error) {
	if p.Config.RedisAddr == "" {
		return NoopCache{}, nil
	}
	c, err := NewRedisCache(p.Ctx, p.Config.RedisAddr, p.Config.RedisPassword)
	if err != nil {
		// Degrade to uncached stats rather than refusing to start.
		p.Logger.Warn("redis unavailable, stats caching disabled", slog.String("error", err.Error()))
		return NoopCache{}, nil
	}
	return c, nil
}

func registerLifecycle(lc fx.Lifecycle, c Cache) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
}
