package cache

import "time"

// Layered reads through memory into disk and promotes disk hits back to
// memory.
type Layered struct {
	hot  Cache
	cold Cache
}

// NewLayeredCache creates the memory+disk pair the fetcher uses.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *Layered {
	return &Layered{
		hot:  NewMemory(memoryTTL),
		cold: NewDisk(diskDir, diskTTL),
	}
}

// Get checks the hot layer first, then the cold one.
func (c *Layered) Get(key string) ([]byte, bool) {
	if val, found := c.hot.Get(key); found {
		return val, true
	}
	if val, found := c.cold.Get(key); found {
		_ = c.hot.Set(key, val, 0)
		return val, true
	}
	return nil, false
}

// Set stores the value in both layers.
func (c *Layered) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.hot.Set(key, value, ttl); err != nil {
		return err
	}
	return c.cold.Set(key, value, ttl)
}

// Delete removes the value from both layers.
func (c *Layered) Delete(key string) error {
	_ = c.hot.Delete(key)
	return c.cold.Delete(key)
}
