package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// lookupCache is a TTL cache for reference data that changes rarely
// (cities, shipping rates). Entries are refreshed lazily on expiry and a
// background goroutine reclaims what nobody asks for again.
type lookupCache struct {
	entries sync.Map // map[string]*cacheEntry[T] boxed as any
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

func (e *cacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

func newLookupCache(ttl time.Duration, logger *zap.Logger) *lookupCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &lookupCache{
		ttl:    ttl,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go c.cleanupExpired()
	return c
}

// get returns the cached value for key. The second result reports whether
// a live entry was found; a cached nil value is a valid hit.
func (c *lookupCache) get(key string) (any, bool) {
	if v, ok := c.entries.Load(key); ok {
		entry := v.(*cacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.value, true
		}
		c.entries.Delete(key)
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, false
}

func (c *lookupCache) set(key string, value any) {
	c.entries.Store(key, &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
}

func (c *lookupCache) invalidateAll() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}

// stats returns hit and miss counters since startup.
func (c *lookupCache) stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

func (c *lookupCache) close() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

func (c *lookupCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			var removed int
			c.entries.Range(func(key, value any) bool {
				if value.(*cacheEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("Cleaned up expired lookup cache entries",
					zap.Int("removed", removed))
			}
		}
	}
}
