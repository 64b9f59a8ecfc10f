package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	signingapp "github.com/signly/backend/internal/application/signing"
	"github.com/signly/backend/internal/infrastructure/config"
)

// ErrCacheMiss is returned when a short URL has no cached publication ID.
var ErrCacheMiss = errors.New("cache miss")

const (
	shortURLKeyPrefix  = "signly:shorturl:"
	defaultShortURLTTL = 24 * time.Hour
)

// RedisShortURLCache caches shortURL -> publication ID lookups in Redis.
// Only the ID mapping is cached; publication status is always read from the
// store so lazy expiration stays correct.
type RedisShortURLCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisShortURLCache connects to Redis and verifies the connection.
func NewRedisShortURLCache(cfg config.RedisConfig) (*RedisShortURLCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisShortURLCache{
		client: client,
		ttl:    defaultShortURLTTL,
	}, nil
}

// NewRedisShortURLCacheWithClient wraps an existing Redis client. A ttl of
// zero uses the default.
func NewRedisShortURLCacheWithClient(client *redis.Client, ttl time.Duration) *RedisShortURLCache {
	if ttl <= 0 {
		ttl = defaultShortURLTTL
	}
	return &RedisShortURLCache{
		client: client,
		ttl:    ttl,
	}
}

func shortURLKey(shortURL string) string {
	return shortURLKeyPrefix + shortURL
}

// GetPublicationID returns the cached publication ID for a short URL.
// Returns ErrCacheMiss when the mapping is not cached.
func (c *RedisShortURLCache) GetPublicationID(ctx context.Context, shortURL string) (uuid.UUID, error) {
	val, err := c.client.Get(ctx, shortURLKey(shortURL)).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrCacheMiss
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read short URL cache: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		// Corrupt entry, drop it and report a miss
		c.client.Del(ctx, shortURLKey(shortURL))
		return uuid.Nil, ErrCacheMiss
	}

	return id, nil
}

// SetPublicationID stores the shortURL -> publication ID mapping with a TTL.
func (c *RedisShortURLCache) SetPublicationID(ctx context.Context, shortURL string, id uuid.UUID) error {
	if err := c.client.Set(ctx, shortURLKey(shortURL), id.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write short URL cache: %w", err)
	}
	return nil
}

// Invalidate removes the mapping for a short URL.
func (c *RedisShortURLCache) Invalidate(ctx context.Context, shortURL string) error {
	if err := c.client.Del(ctx, shortURLKey(shortURL)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate short URL cache: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *RedisShortURLCache) Close() error {
	return c.client.Close()
}

var _ signingapp.ShortURLCache = (*RedisShortURLCache)(nil)
