package cache

import (
	"context"
	"strings"
	"time"
)

// Category partitions cached remote responses. TTLs are per category, not
// per entry.
type Category string

const (
	CategoryAirports Category = "airports"
	CategoryCalendar Category = "calendar"
	CategoryFlights  Category = "flights"
	CategoryDebug    Category = "debug"
)

var ttlByCategory = map[Category]time.Duration{
	CategoryAirports: 30 * 24 * time.Hour,
	CategoryCalendar: 3 * 24 * time.Hour,
	CategoryFlights:  7 * 24 * time.Hour,
	CategoryDebug:    100 * 24 * time.Hour,
}

// TTL returns the category's time-to-live. Unknown categories get zero,
// which makes every entry immediately stale.
func TTL(cat Category) time.Duration {
	return ttlByCategory[cat]
}

// Store is TTL-keyed persistence for remote responses.
//
// Get returns (payload, true) only for a live, readable entry; expired or
// corrupt entries are misses. Put is a no-op while a live entry exists for
// the key, so a key is written at most once per TTL window.
type Store interface {
	Get(ctx context.Context, cat Category, key string) ([]byte, bool)
	Put(ctx context.Context, cat Category, key string, payload []byte) error
	Close() error
}

var keySanitizer = strings.NewReplacer("/", "-", "\\", "-", " ", "-", "..", "-")

// Key builds a deterministic cache key from query parameter values. Callers
// pass values in a fixed order so identical queries always map to the same
// key.
func Key(parts ...string) string {
	lowered := make([]string, len(parts))
	for i, p := range parts {
		lowered[i] = keySanitizer.Replace(strings.ToLower(p))
	}
	return strings.Join(lowered, "_")
}

// NoOpCache disables caching; every Get is a miss.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, cat Category, key string) ([]byte, bool) {
	return nil, false
}

func (c *NoOpCache) Put(ctx context.Context, cat Category, key string, payload []byte) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
