package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the fixed validity for cached configuration values.
const DefaultTTL = 24 * time.Hour

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type entry struct {
	value     string
	expiresAt time.Time
}

// TTLCache is a fixed-TTL string cache for immutable configuration facts
// (system parameters, phrases). Last writer wins on concurrent sets.
type TTLCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   Clock
	entries map[string]entry
}

// Option customizes the cache.
type Option func(*TTLCache)

// WithClock assigns a clock, for tests.
func WithClock(clock Clock) Option {
	return func(c *TTLCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New constructs a cache with the given TTL. Non-positive TTLs fall back to
// the default.
func New(ttl time.Duration, opts ...Option) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &TTLCache{
		ttl:     ttl,
		clock:   systemClock{},
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value when present and unexpired.
func (c *TTLCache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.clock.Now().After(cached.expiresAt) {
		return "", false
	}
	return cached.value, true
}

// Set stores a value with the fixed TTL.
func (c *TTLCache) Set(key, value string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.clock.Now().Add(c.ttl)}
	c.mu.Unlock()
}
