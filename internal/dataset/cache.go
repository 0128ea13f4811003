package dataset

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadFunc parses a table on a cache miss
type LoadFunc func() (*Table, error)

// Cache memoizes parsed tables by source identity
type Cache interface {
	// GetOrLoad returns a private copy of the table stored under key,
	// calling load on a miss. hit reports whether load was skipped.
	GetOrLoad(ctx context.Context, key string, load LoadFunc) (table *Table, hit bool, err error)
	// Clear drops every entry
	Clear()
	// Stats reports usage counters
	Stats() CacheStats
}

// CacheStats holds cache counters
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRatio   float64 `json:"hit_ratio"`
}

// MemoryCache is a process-scoped read-through cache. Concurrent loads of
// the same key run once; the oldest entry is evicted when full.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*Table
	order      []string
	maxEntries int
	hits       int64
	misses     int64
	group      singleflight.Group
}

// NewMemoryCache creates a cache holding at most maxEntries tables;
// maxEntries <= 0 means unbounded.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]*Table),
		maxEntries: maxEntries,
	}
}

// GetOrLoad implements Cache
func (c *MemoryCache) GetOrLoad(ctx context.Context, key string, load LoadFunc) (*Table, bool, error) {
	if t, ok := c.lookup(key); ok {
		return t.Clone(), true, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		t, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return t, nil
		}

		t, err := load()
		if err != nil {
			return nil, err
		}
		c.store(key, t)
		return t, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Table).Clone(), false, nil
}

func (c *MemoryCache) lookup(key string) (*Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return t, ok
}

func (c *MemoryCache) store(key string, t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = t
		return
	}
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = t
	c.order = append(c.order, key)
}

func (c *MemoryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

// Clear implements Cache
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Table)
	c.order = nil
}

// Stats implements Cache
func (c *MemoryCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ratio := float64(0)
	if total := c.hits + c.misses; total > 0 {
		ratio = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Entries:    len(c.entries),
		MaxEntries: c.maxEntries,
		Hits:       c.hits,
		Misses:     c.misses,
		HitRatio:   ratio,
	}
}

// NopCache loads on every call
type NopCache struct{}

// GetOrLoad implements Cache
func (NopCache) GetOrLoad(_ context.Context, _ string, load LoadFunc) (*Table, bool, error) {
	t, err := load()
	return t, false, err
}

// Clear implements Cache
func (NopCache) Clear() {}

// Stats implements Cache
func (NopCache) Stats() CacheStats { return CacheStats{} }
