// Package dedupe hands out one-shot claims on form tokens so a form submitted twice
// only reaches the API once.
package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/andrasnagy-data/productdesk/internal/shared/config"
)

// Guard claims keys for a fixed window.
type Guard interface {
	// Claim reports whether key was free and is now held by the caller.
	Claim(ctx context.Context, key string) (bool, error)
	// Release frees key early, e.g. after a failed submission.
	Release(ctx context.Context, key string) error
}

// NewGuard returns a Redis backed guard when REDIS_ADDR is set, an in-memory one otherwise.
func NewGuard(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (Guard, error) {
	if cfg.RedisAddr == "" {
		logger.Debug().Dur("window", cfg.ClaimWindow()).Msg("Using in-memory submit guard")
		return NewMemoryGuard(cfg.ClaimWindow()), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := newRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Error().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return rdb.Close()
		},
	})

	logger.Debug().Str("addr", cfg.RedisAddr).Dur("window", cfg.ClaimWindow()).Msg("Using Redis submit guard")
	return NewRedisGuard(rdb, cfg.ClaimWindow()), nil
}

// newRedisClient creates and pings a Redis client with optional password auth.
func newRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
