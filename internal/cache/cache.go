// Package cache keeps rendered JSON (catalog lists, notification templates)
// in process memory with an expiry and a weak ETag per entry.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	TTLBanners  = 10 * time.Minute
	TTLPackages = 1 * time.Hour

	sweepEvery = 5 * time.Minute
)

type item struct {
	body     []byte
	etag     string
	deadline time.Time
}

func (it item) live(now time.Time) bool { return now.Before(it.deadline) }

// Cache is safe for concurrent use. A disabled Cache stores nothing and
// misses every Get, but Set still returns the ETag so handlers can answer
// conditional requests either way.
type Cache struct {
	enabled bool
	now     func() time.Time

	mu    sync.RWMutex
	items map[string]item

	hits   atomic.Int64
	misses atomic.Int64

	done      chan struct{}
	closeOnce sync.Once
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache and, when enabled, starts its expiry sweep.
func New(enabled bool, opts ...Option) *Cache {
	c := &Cache{
		enabled: enabled,
		now:     time.Now,
		items:   make(map[string]item),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if enabled {
		go c.sweep(sweepEvery)
	}
	return c
}

// Close stops the sweep. Safe to call more than once.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Get returns the body and ETag stored under key if it has not expired.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	it, found := c.items[key]
	c.mu.RUnlock()
	if !found || !it.live(c.now()) {
		c.misses.Add(1)
		return nil, "", false
	}
	c.hits.Add(1)
	return it.body, it.etag, true
}

// Set stores data under key for ttl and returns its ETag.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	c.items[key] = item{body: data, etag: etag, deadline: c.now().Add(ttl)}
	c.mu.Unlock()
	return etag
}

// Delete drops keys after an admin write changed what they render.
func (c *Cache) Delete(keys ...string) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
}

// Stats is the view served on /health/cache.
type Stats struct {
	Enabled bool  `json:"enabled"`
	Keys    int   `json:"total_keys"`
	Live    int   `json:"active_keys"`
	Expired int   `json:"expired_keys"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Stats counts stored keys and lookups since start.
func (c *Cache) Stats() Stats {
	now := c.now()
	c.mu.RLock()
	s := Stats{Enabled: c.enabled, Keys: len(c.items)}
	for _, it := range c.items {
		if it.live(now) {
			s.Live++
		}
	}
	c.mu.RUnlock()
	s.Expired = s.Keys - s.Live
	s.Hits = c.hits.Load()
	s.Misses = c.misses.Load()
	return s
}

func (c *Cache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.dropExpired()
		case <-c.done:
			return
		}
	}
}

// dropExpired removes dead entries and reports how many went.
func (c *Cache) dropExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, it := range c.items {
		if !it.live(now) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// ComputeETag returns a weak ETag over the first 8 bytes of data's MD5.
func ComputeETag(data []byte) string {
	sum := md5.Sum(data)
	return `W/"` + hex.EncodeToString(sum[:8]) + `"`
}

// CheckETagMatch reports whether an If-None-Match header matches etag. The
// header may list several tags; comparison is weak, so W/ prefixes are
// ignored on both sides.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, cand := range strings.Split(ifNoneMatch, ",") {
		cand = strings.TrimSpace(cand)
		if cand == "*" || strings.TrimPrefix(cand, "W/") == want {
			return true
		}
	}
	return false
}
