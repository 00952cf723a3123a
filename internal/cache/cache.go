// Package cache provides the short-lived key/value store used for
// sessions and pending login state.
//
// Backends:
//   - Memory (in-process, for development and tests)
//   - Redis (shared, for production)
package cache

import (
	"context"
	"time"
)

// Client defines the cache operations.
type Client interface {
	// Get returns a value. Returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with a TTL. A ttl of 0 never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error

	// Stats returns backend statistics.
	Stats(ctx context.Context) (Stats, error)
}

// Stats holds cache statistics.
type Stats struct {
	Driver string
	Keys   int64
	Hits   int64
	Misses int64
}

// Config selects and configures a cache backend.
type Config struct {
	Kind       string // "memory" | "redis"
	Addr       string
	Password   string
	DB         int
	Prefix     string // prepended to every key
	DefaultTTL time.Duration
}

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "cache: key not found" }

// IsNotFound reports whether err means the key was absent.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// New builds a cache client for the configured backend.
func New(cfg Config) (Client, error) {
	switch cfg.Kind {
	case "redis":
		return NewRedis(cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	default:
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	}
}
