package ristretto

import (
	"time"

	"github.com/anvena/launchpad/cache"
	"github.com/dgraph-io/ristretto/v2"
)

type Cache[K ristretto.Key, V any] struct {
	cache *ristretto.Cache[K, V]
}

var _ cache.Cache[string, any] = (*Cache[string, any])(nil)

func (rc *Cache[K, V]) Get(key K) (V, bool) {
	return rc.cache.Get(key)
}

func (rc *Cache[K, V]) Set(key K, value V, cost int64) bool {
	return rc.cache.Set(key, value, cost)
}

func (rc *Cache[K, V]) SetWithTTL(key K, value V, cost int64, ttl time.Duration) bool {
	return rc.cache.SetWithTTL(key, value, cost, ttl)
}

func (rc *Cache[K, V]) Del(key K) {
	rc.cache.Del(key)
}

// Wait blocks until buffered writes have been applied. Useful in tests.
func (rc *Cache[K, V]) Wait() {
	rc.cache.Wait()
}

func New[K ristretto.Key, V any](numCounters, maxCost int64) (*Cache[K, V], error) {
	if numCounters <= 0 {
		numCounters = 1e7 // number of keys to track frequency of (10M)
	}
	if maxCost <= 0 {
		maxCost = 1 << 30 // maximum cost of cache (1GB)
	}
	c, err := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, err
	}

	return &Cache[K, V]{cache: c}, nil
}
