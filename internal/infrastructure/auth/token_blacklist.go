package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/signly/backend/internal/infrastructure/config"
)

// TokenBlacklist invalidates JWT tokens before their natural expiry,
// for logout and forced session revocation.
type TokenBlacklist interface {
	// AddToBlacklist revokes a single token by its JTI. ttl should be the
	// remaining time until the token expires.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted reports whether a token's JTI has been revoked.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddUserTokensToBlacklist revokes every token issued to a user up to now.
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserTokenInvalidated reports whether a token issued at tokenIssuedAt
	// falls before the user's revocation cutoff.
	IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

const blacklistKeyPrefix = "signly:token:blacklist:"

// RedisTokenBlacklist implements TokenBlacklist on Redis so revocation is
// shared across server instances.
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist connects to Redis and verifies the connection.
func NewRedisTokenBlacklist(cfg config.RedisConfig) (*RedisTokenBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for token blacklist: %w", err)
	}

	return &RedisTokenBlacklist{client: client}, nil
}

// NewRedisTokenBlacklistWithClient wraps an existing Redis client.
func NewRedisTokenBlacklistWithClient(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func jtiKey(jti string) string {
	return blacklistKeyPrefix + "jti:" + jti
}

func userKey(userID string) string {
	return blacklistKeyPrefix + "user:" + userID
}

func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

// AddUserTokensToBlacklist stores the revocation cutoff as a Unix timestamp.
// Tokens issued at or before the cutoff are treated as revoked.
func (b *RedisTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	cutoff := time.Now().Unix()
	if err := b.client.Set(ctx, userKey(userID), cutoff, ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	val, err := b.client.Get(ctx, userKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user token invalidation: %w", err)
	}

	cutoff, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}

	return tokenIssuedAt.Unix() <= cutoff, nil
}

// Close closes the Redis client.
func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is a single-process TokenBlacklist for tests and
// local development. Do not use it behind multiple server instances.
type InMemoryTokenBlacklist struct {
	mu          sync.RWMutex
	revokedJTIs map[string]time.Time // JTI -> blacklist entry expiry
	userCutoffs map[string]time.Time // userID -> revocation cutoff
}

// NewInMemoryTokenBlacklist creates an empty in-memory blacklist.
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revokedJTIs: make(map[string]time.Time),
		userCutoffs: make(map[string]time.Time),
	}
}

func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revokedJTIs[jti] = time.Now().Add(ttl)
	return nil
}

func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, ok := b.revokedJTIs[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(b.revokedJTIs, jti)
		return false, nil
	}
	return true, nil
}

func (b *InMemoryTokenBlacklist) AddUserTokensToBlacklist(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userCutoffs[userID] = time.Now()
	return nil
}

func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cutoff, ok := b.userCutoffs[userID]
	if !ok {
		return false, nil
	}
	// UnixNano keeps sub-second precision for tests
	return tokenIssuedAt.UnixNano() <= cutoff.UnixNano(), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
