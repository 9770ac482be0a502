// Package cache provides the layered extraction-result cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from document content. Keying on content rather
// than path means a renamed or re-uploaded copy of the same document still
// hits the cache, and an edited document misses it.
func Key(content []byte) string {
	hash := sha256.Sum256(content)
	return "claimroute:v1:" + hex.EncodeToString(hash[:])
}
