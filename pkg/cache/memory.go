package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a bounded in-process cache with FIFO eviction. When the
// store is full the entry inserted earliest is dropped regardless of how
// recently it was read.
type MemoryCache struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List
	capacity int
	ttl      time.Duration
	hits     int64
	misses   int64

	// now is swapped out by tests to control expiry.
	now func() time.Time
}

// NewMemoryCache creates a memory cache with the given capacity and TTL.
// Non-positive values fall back to the defaults.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the value for key. Expired entries are removed on access and
// count as misses.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	entry := elem.Value.(*memoryEntry)
	if c.now().After(entry.expiresAt) {
		c.removeLocked(elem)
		c.misses++
		return nil, false
	}

	c.hits++
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true
}

// Set stores value under key. Re-setting an existing key refreshes its value
// and TTL but keeps its insertion position.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = stored
		entry.expiresAt = c.now().Add(c.ttl)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Front(); oldest != nil {
			c.removeLocked(oldest)
		}
	}

	elem := c.order.PushBack(&memoryEntry{
		key:       key,
		value:     stored,
		expiresAt: c.now().Add(c.ttl),
	})
	c.entries[key] = elem
}

// Delete removes key if present.
func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}
}

// Stats returns a snapshot of the cache counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Entries:  c.order.Len(),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
		HitRate:  hitRate(c.hits, c.misses),
	}
}

// Sweep removes all expired entries and returns how many were dropped.
func (c *MemoryCache) Sweep(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*memoryEntry).expiresAt) {
			c.removeLocked(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Close implements Cache. The memory store holds no external resources.
func (c *MemoryCache) Close() error {
	return nil
}

func (c *MemoryCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}
