// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/user-backend/internal/config"
)

type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{Client: client}, nil
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}

const counterPrefix = "stats:"

// Incr bumps a named operation counter.
func (r *Redis) Incr(ctx context.Context, name string) error {
	if err := r.Client.Incr(ctx, counterPrefix+name).Err(); err != nil {
		return fmt.Errorf("incr %s: %w", name, err)
	}
	return nil
}

// Counters reads the named counters. Missing counters read as zero.
func (r *Redis) Counters(
	ctx context.Context,
	names ...string,
) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	if len(names) == 0 {
		return out, nil
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = counterPrefix + n
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read counters: %w", err)
	}

	for i, v := range vals {
		var n int64
		if s, ok := v.(string); ok {
			n, _ = strconv.ParseInt(s, 10, 64) //nolint:errcheck // non-numeric reads as zero
		}
		out[names[i]] = n
	}

	return out, nil
}
