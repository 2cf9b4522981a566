package ports

import (
	"context"
	"time"
)

// Cache is an expiring key-value store. Implementations are backed by Redis
// or by process memory.
type Cache interface {
	// Get returns the value and true on a hit, or "" and false on a miss.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key; ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
