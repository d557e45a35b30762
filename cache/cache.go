// Package cache memoizes aggregation results per canonical feed-set key.
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsroom/models"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_cache_hits_total",
		Help: "The total number of aggregation cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_cache_misses_total",
		Help: "The total number of aggregation cache misses, expired entries included",
	})
)

// DefaultTTL is the freshness window for cached aggregations.
const DefaultTTL = 10 * time.Minute

type entry struct {
	expiresAt time.Time
	data      []models.Article
}

// Cache is a TTL-bounded in-memory store of aggregation results. Expired
// entries are evicted lazily on read; there is no background sweep.
// Concurrent Puts under the same key are last-write-wins, which is harmless
// because articles are re-derivable from feed content.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// New returns a cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock takes an explicit clock so tests can control expiry.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached articles for key. An expired entry counts as absent
// and is evicted on the spot.
func (c *Cache) Get(key string) ([]models.Article, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		cacheMisses.Inc()
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		cacheMisses.Inc()
		return nil, false
	}
	cacheHits.Inc()
	return e.data, true
}

// Put stores articles under key for one TTL window, overwriting any previous
// entry.
func (c *Cache) Put(key string, data []models.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		expiresAt: c.now().Add(c.ttl),
		data:      data,
	}
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
