// Package cache stores rendered scenario projections in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/trogers1052/trading-position-modeler/internal/models"
)

// KeyPrefix namespaces every render cache key
const KeyPrefix = "position-scenarios:"

// RenderCache caches rendered positions by position ID. Redis failures are
// logged and treated as a miss.
type RenderCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

// NewClient creates a Redis client for the render cache
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// New creates a render cache on top of an existing Redis client
func New(client redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) *RenderCache {
	return &RenderCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "render_cache").Logger(),
	}
}

// Key returns the Redis key for a position ID
func Key(id string) string {
	return KeyPrefix + id
}

// Get returns the cached rendering for id, if any
func (c *RenderCache) Get(ctx context.Context, id string) (*models.RenderedPosition, bool) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("id", id).Msg("Render cache read failed")
		}
		return nil, false
	}

	var rendered models.RenderedPosition
	if err := msgpack.Unmarshal(data, &rendered); err != nil {
		c.logger.Warn().Err(err).Str("id", id).Msg("Discarding undecodable render cache entry")
		return nil, false
	}
	return &rendered, true
}

// Set stores a rendering for id
func (c *RenderCache) Set(ctx context.Context, id string, rendered *models.RenderedPosition) {
	if err := c.set(ctx, id, rendered); err != nil {
		c.logger.Warn().Err(err).Str("id", id).Msg("Render cache write failed")
	}
}

func (c *RenderCache) set(ctx context.Context, id string, rendered *models.RenderedPosition) error {
	data, err := msgpack.Marshal(rendered)
	if err != nil {
		return fmt.Errorf("failed to marshal rendered position: %w", err)
	}
	if err := c.client.Set(ctx, Key(id), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write rendered position to redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached renderings for ids
func (c *RenderCache) Invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = Key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Strs("ids", ids).Msg("Render cache invalidation failed")
	}
}

// Ping checks the Redis connection
func (c *RenderCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (c *RenderCache) Close() error {
	return c.client.Close()
}
