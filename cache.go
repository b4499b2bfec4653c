package pressfront

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/pressfront/source"
)

type cacheEntry struct {
	resp    source.Response
	fetched time.Time
}

// MemoryCache is an in-memory TTL cache of REST responses. Keys never seen by
// this process fall through to next when one is set, and hits from next are
// kept in memory. A key whose memory entry expired skips next and misses, so a
// warm process reloads from the API once the TTL has passed.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	next    source.Cache
	now     func() time.Time
}

// NewMemoryCache creates a MemoryCache in front of next, which may be nil.
func NewMemoryCache(ttl time.Duration, next source.Cache) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		next:    next,
		now:     time.Now,
	}
}

func (c *MemoryCache) valid(e cacheEntry) bool {
	return c.now().Sub(e.fetched) < c.ttl
}

// Get returns the cached response for key.
func (c *MemoryCache) Get(ctx context.Context, key string) (source.Response, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.valid(e) {
		return e.resp, true, nil
	}
	if ok {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && !c.valid(cur) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return source.Response{}, false, nil
	}

	if c.next == nil {
		return source.Response{}, false, nil
	}
	resp, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return source.Response{}, false, err
	}
	c.put(key, resp)
	return resp, true, nil
}

// Set stores resp in memory and in next.
func (c *MemoryCache) Set(ctx context.Context, key string, resp source.Response) error {
	c.put(key, resp)
	if c.next != nil {
		return c.next.Set(ctx, key, resp)
	}
	return nil
}

func (c *MemoryCache) put(key string, resp source.Response) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{resp: resp, fetched: c.now()}
	c.mu.Unlock()
}

// Purge clears memory and next so the next read triggers a fresh load.
func (c *MemoryCache) Purge(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	if c.next != nil {
		return c.next.Purge(ctx)
	}
	return nil
}

// Len returns the number of entries held in memory.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
