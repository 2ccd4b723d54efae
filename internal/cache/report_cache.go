package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const reportKeyPrefix = "report:"

// ReportCache keeps serialized relational report results in redis.
// A nil *ReportCache (or one without client) is a valid no-op cache.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache connects to redisURL (redis://host:port/db). An empty URL
// disables caching and returns a nil cache.
func NewReportCache(redisURL, password string, ttl time.Duration) (*ReportCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ReportCache{client: rdb, ttl: ttl}, nil
}

// ReportKey builds the cache key of one report invocation
func ReportKey(report string, params ...string) string {
	if len(params) == 0 {
		return reportKeyPrefix + report
	}
	return reportKeyPrefix + report + ":" + strings.Join(params, ":")
}

// Get decodes the cached value into out and reports whether it was present
func (c *ReportCache) Get(ctx context.Context, key string, out any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *ReportCache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// InvalidateReports drops every cached report
func (c *ReportCache) InvalidateReports(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	var cursor uint64
	for {
		// SCAN returns keys in batches without blocking
		keys, next, err := c.client.Scan(ctx, cursor, reportKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache delete: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *ReportCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Load returns the cached value under key, or calls load and caches its result.
// Cache failures never fail the call; they only skip the cache.
func Load[T any](ctx context.Context, c *ReportCache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if ok, err := c.Get(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	_ = c.Set(ctx, key, v)
	return v, nil
}
