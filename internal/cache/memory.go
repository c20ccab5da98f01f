package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the hot layer. Entries expire after the default TTL and the
// janitor sweeps on the same interval.
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates a memory cache with the given default TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{store: gocache.New(ttl, ttl)}
}

// Get retrieves a value.
func (c *Memory) Get(key string) ([]byte, bool) {
	if val, found := c.store.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value. A zero ttl uses the cache default.
func (c *Memory) Set(key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

// Delete removes a value.
func (c *Memory) Delete(key string) error {
	c.store.Delete(key)
	return nil
}
