package cache

import "time"

// Cache is a byte oriented key/value store with expiry. Get returns an error on a miss.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, content []byte, duration time.Duration) error
}
