package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis operations used for shared provider quotas.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration. An empty URL disables Redis.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// Enabled reports whether a Redis URL is configured.
func (c Config) Enabled() bool { return c.URL != "" }

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key helpers
func quotaKey(providerName string, day time.Time) string {
	return fmt.Sprintf("quota:%s:%s", providerName, day.Format("2006-01-02"))
}

// IncrQuota increments today's call counter for a provider and returns the
// new value. The key expires at the end of the day.
func (c *Client) IncrQuota(ctx context.Context, providerName string, now time.Time) (int, error) {
	key := quotaKey(providerName, now)

	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, nextMidnight(now))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incr quota failed: %w", err)
	}

	return int(incr.Val()), nil
}

// GetQuota returns today's call counter for a provider.
func (c *Client) GetQuota(ctx context.Context, providerName string, now time.Time) (int, error) {
	val, err := c.rdb.Get(ctx, quotaKey(providerName, now)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get quota failed: %w", err)
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid quota value %q: %w", val, err)
	}
	return n, nil
}

func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
