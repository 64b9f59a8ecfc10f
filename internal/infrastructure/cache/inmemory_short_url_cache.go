package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	signingapp "github.com/signly/backend/internal/application/signing"
)

type shortURLEntry struct {
	id        uuid.UUID
	expiresAt time.Time
}

// InMemoryShortURLCache is a single-process ShortURLCache for tests and
// deployments without Redis. Entries expire lazily on read.
type InMemoryShortURLCache struct {
	mu      sync.RWMutex
	entries map[string]shortURLEntry
	ttl     time.Duration
}

// NewInMemoryShortURLCache creates an empty cache. A ttl of zero uses the
// default.
func NewInMemoryShortURLCache(ttl time.Duration) *InMemoryShortURLCache {
	if ttl <= 0 {
		ttl = defaultShortURLTTL
	}
	return &InMemoryShortURLCache{
		entries: make(map[string]shortURLEntry),
		ttl:     ttl,
	}
}

func (c *InMemoryShortURLCache) GetPublicationID(_ context.Context, shortURL string) (uuid.UUID, error) {
	c.mu.RLock()
	entry, ok := c.entries[shortURL]
	c.mu.RUnlock()

	if !ok {
		return uuid.Nil, ErrCacheMiss
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, shortURL)
		c.mu.Unlock()
		return uuid.Nil, ErrCacheMiss
	}

	return entry.id, nil
}

func (c *InMemoryShortURLCache) SetPublicationID(_ context.Context, shortURL string, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[shortURL] = shortURLEntry{
		id:        id,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

func (c *InMemoryShortURLCache) Invalidate(_ context.Context, shortURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, shortURL)
	return nil
}

// Len returns the number of cached entries, for test assertions.
func (c *InMemoryShortURLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ signingapp.ShortURLCache = (*InMemoryShortURLCache)(nil)
