// Package cache holds the latest-period cache serving default-shape
// summary requests: the freshly built summary body and the path of its
// Excel export.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// KeyLatestSummary stores the default latest-month summary response.
	KeyLatestSummary = "client_summary:latest_month"
	// KeyLatestExport stores the file path of the default summary export.
	KeyLatestExport = "client_summary:latest_month:excel"
)

// Store is the cache the report services depend on. Writers overwrite
// unconditionally, so concurrent rebuilds resolve last-writer-wins, and
// readers treat any miss as a rebuild signal.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Delete(key string)
}

// MemoryStore is an in-process Store with TTL eviction.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(ttl, 10*time.Minute)}
}

// Get returns the live entry for key, if any.
func (s *MemoryStore) Get(key string) (interface{}, bool) {
	return s.cache.Get(key)
}

// Set stores value under key with the default TTL.
func (s *MemoryStore) Set(key string, value interface{}) {
	s.cache.Set(key, value, gocache.DefaultExpiration)
}

// Delete drops the entry for key.
func (s *MemoryStore) Delete(key string) {
	s.cache.Delete(key)
}
