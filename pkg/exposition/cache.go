package exposition

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mercator-hq/ganymede/pkg/metrics"
)

// Clock abstracts time for the cache, so expiry tests inject a fake clock
// instead of sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CacheConfig contains configuration for a Cache.
type CacheConfig struct {
	// TTL is how long a rendered document is reused. Zero disables
	// caching: every scrape re-serializes.
	TTL time.Duration

	// Clock supplies the current time. Nil uses the system clock.
	Clock Clock
}

// Cache memoizes the serialized exposition document in front of a
// registry. Repeated scrapes within the TTL return the cached bytes (the
// gzip variant is pre-compressed alongside); once the entry ages out, the
// next scrape regenerates it. Concurrent scrapes during regeneration
// share one render via a double-checked lock.
//
// Cache is safe for concurrent use.
type Cache struct {
	reg   *metrics.Registry
	ttl   atomic.Int64 // nanoseconds
	clock Clock

	mu         sync.RWMutex
	plain      []byte
	gzipped    []byte
	renderedAt time.Time
	valid      bool
}

// NewCache creates a scrape cache over reg.
func NewCache(reg *metrics.Registry, cfg CacheConfig) *Cache {
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}
	c := &Cache{reg: reg, clock: clock}
	c.ttl.Store(int64(cfg.TTL))
	return c
}

// SetTTL replaces the cache TTL at runtime, typically from a config
// reload. A zero TTL disables caching from the next scrape on.
func (c *Cache) SetTTL(ttl time.Duration) {
	c.ttl.Store(int64(ttl))
}

// Get returns the current exposition document. The second result is the
// gzip-compressed variant of the first.
func (c *Cache) Get() (plain, gzipped []byte, err error) {
	ttl := time.Duration(c.ttl.Load())
	now := c.clock.Now()

	if ttl > 0 {
		c.mu.RLock()
		if c.valid && now.Sub(c.renderedAt) < ttl {
			plain, gzipped = c.plain, c.gzipped
			c.mu.RUnlock()
			return plain, gzipped, nil
		}
		c.mu.RUnlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check: another scrape may have regenerated while we waited.
	if ttl > 0 && c.valid && c.clock.Now().Sub(c.renderedAt) < ttl {
		return c.plain, c.gzipped, nil
	}

	plain, gzipped, err = c.render()
	if err != nil {
		return nil, nil, err
	}

	c.plain = plain
	c.gzipped = gzipped
	c.renderedAt = c.clock.Now()
	c.valid = true
	return plain, gzipped, nil
}

// render serializes a fresh snapshot and compresses it. Collection never
// mutates registry state, so an abandoned or failed render leaves the
// registry untouched.
func (c *Cache) render() (plain, gzipped []byte, err error) {
	snap := c.reg.Collect()

	var buf bytes.Buffer
	if err := Write(&buf, snap); err != nil {
		return nil, nil, fmt.Errorf("failed to serialize metrics: %w", err)
	}
	plain = buf.Bytes()

	var zbuf bytes.Buffer
	zw := gzip.NewWriter(&zbuf)
	if _, err := zw.Write(plain); err != nil {
		return nil, nil, fmt.Errorf("failed to compress metrics: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, nil, fmt.Errorf("failed to compress metrics: %w", err)
	}
	return plain, zbuf.Bytes(), nil
}
