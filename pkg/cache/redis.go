package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a [RedisCache].
type RedisConfig struct {
	// URL in redis:// form. Takes precedence over Addr, Password and DB.
	URL      string
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) options() (*redis.Options, error) {
	if c.URL != "" {
		opt, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opt, nil
	}
	addr := c.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	return &redis.Options{Addr: addr, Password: c.Password, DB: c.DB}, nil
}

// RedisCache stores entries in Redis. It is safe for concurrent use and is
// meant to be shared by every server instance.
type RedisCache struct {
	client *redis.Client
	closed atomic.Bool
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opt, err := cfg.options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	c := &RedisCache{client: client}
	if err := c.retry(ctx, func() error { return client.Ping(ctx).Err() }); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, opt.Addr, err)
	}
	return c, nil
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	var data []byte
	err := c.retry(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements [Cache].
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.retry(ctx, func() error {
		return c.client.Set(ctx, key, data, ttl).Err()
	})
}

// Delete implements [Cache].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.retry(ctx, func() error {
		return c.client.Del(ctx, key).Err()
	})
}

// Close releases the connection pool. Further calls return [ErrClosed].
func (c *RedisCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.client.Close()
}

// retry runs fn with backoff, retrying transport failures only.
func (c *RedisCache) retry(ctx context.Context, fn func() error) error {
	err := RetryWithBackoff(ctx, func() error {
		err := fn()
		if err == nil || errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return err
		}
		return Retryable(err)
	})
	var re *RetryableError
	if errors.As(err, &re) {
		return fmt.Errorf("%w: %v", ErrUnavailable, re.Err)
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
