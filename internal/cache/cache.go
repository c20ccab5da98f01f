// Package cache provides the layered fetch cache: re-running a query
// within the TTL reuses extracted pages instead of re-crawling them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the store the fetcher reads extracted pages through.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// Key generates a cache key from a URL. The version segment invalidates
// old entries when the cached payload shape changes.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "dossier:v1:" + hex.EncodeToString(hash[:])
}
