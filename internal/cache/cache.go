package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched body text between collector runs so unchanged
// pages are not refetched.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}

// Key derives a cache key from a URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "claimsift:v1:" + hex.EncodeToString(hash[:])
}
