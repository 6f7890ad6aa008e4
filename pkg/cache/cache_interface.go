package cache

import (
	"context"
	"time"
)

// Cache is the contract of the response cache. Values are stored as JSON,
// so Redis and in-memory implementations are interchangeable.
type Cache interface {
	// Get unmarshals the value of key into dest.
	// found = false on a miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern ("cms:news:*").
	DeletePattern(ctx context.Context, pattern string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
