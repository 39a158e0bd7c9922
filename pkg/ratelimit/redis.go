package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// incrScript increments the counter and starts the window on the first hit
// so that INCR and PEXPIRE happen atomically.
var incrScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Redis is a Limiter shared by every process pointed at the same server.
type Redis struct {
	client redis.UniversalClient
	window time.Duration
	prefix string
}

// NewRedis returns a Redis limiter. A non-positive window selects
// DefaultWindow.
func NewRedis(client redis.UniversalClient, window time.Duration) *Redis {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Redis{client: client, window: window, prefix: "rate_limit:"}
}

// Check implements Limiter.
func (r *Redis) Check(ctx context.Context, limit int, key string) (bool, error) {
	n, err := incrScript.Run(ctx, r.client, []string{r.prefix + key}, r.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit: redis incr: %w", err)
	}
	return n < int64(limit), nil
}

// RedisConfig holds connection settings for NewRedisClient.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
	RetryDelay time.Duration
}

// NewRedisClient connects to Redis, retrying the initial ping.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	var lastErr error
	for i := 0; i <= cfg.MaxRetries; i++ {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			lastErr = fmt.Errorf("ping redis: %w", err)
			_ = client.Close()
			if i < cfg.MaxRetries {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(cfg.RetryDelay):
				}
			}
			continue
		}
		return client, nil
	}

	return nil, fmt.Errorf("connect to redis after %d retries: %w", cfg.MaxRetries, lastErr)
}
