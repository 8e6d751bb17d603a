package cachemanager

import "time"

// CacheManager is an in-process key/value cache. Access is synchronous; a
// zero TTL falls back to the manager's default expiration.
type CacheManager[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(keys ...K) error
	Flush() error
}
