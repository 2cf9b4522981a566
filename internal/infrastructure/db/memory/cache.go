package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Cache is an expiring in-process key-value store. Expired entries are
// dropped lazily on read.
type Cache struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time
}

func NewCache() *Cache {
	return &Cache{items: make(map[string]entry), now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *Cache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.items[key] = e
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

func (c *Cache) Ping(context.Context) error { return nil }
