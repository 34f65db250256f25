// Package cache keeps recent accuracy aggregates in Redis. The cache is a
// pure optimization: any miss or Redis failure falls back to recomputing
// from the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"marketcast/models"
)

// Client wraps a Redis connection for accuracy-stat caching.
type Client struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// New connects to Redis and verifies the connection.
func New(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.With().Str("component", "cache").Logger(),
	}, nil
}

// Ping reports Redis connectivity for health checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key builds the cache key for one accuracy query.
func Key(days int, symbol, marketType string) string {
	return fmt.Sprintf("accuracy:%d:%s:%s", days, symbol, marketType)
}

// GetAccuracy returns the cached stat for the key, if present.
func (c *Client) GetAccuracy(ctx context.Context, key string) (*models.AccuracyStat, bool) {
	data, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}

	var stat models.AccuracyStat
	if err := json.Unmarshal([]byte(data), &stat); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache entry corrupt, ignoring")
		return nil, false
	}
	return &stat, true
}

// SetAccuracy stores a stat under the key with the configured TTL. Failures
// are logged and swallowed.
func (c *Client) SetAccuracy(ctx context.Context, key string, stat *models.AccuracyStat) {
	data, err := json.Marshal(stat)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
