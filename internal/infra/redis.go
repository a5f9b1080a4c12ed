package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPingTimeout bounds the startup connectivity check so a misconfigured
// REDIS_URL fails fast instead of hanging the boot sequence.
const redisPingTimeout = 5 * time.Second

// NewRedis connects the client backing the price cache and the post-commit
// job queue, validating connectivity before the server starts accepting
// settlements.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}
