package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "submit:"

// RedisGuard shares claims across instances with SET NX.
type RedisGuard struct {
	rdb    *redis.Client
	window time.Duration
}

func NewRedisGuard(rdb *redis.Client, window time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, window: window}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	return g.rdb.SetNX(ctx, keyPrefix+key, 1, g.window).Result()
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.rdb.Del(ctx, keyPrefix+key).Err()
}
