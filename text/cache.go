package text

import (
	"cmp"
	"slices"
	"sync"
)

// Cache is a thread-safe LRU cache with a soft limit.
// When the cache exceeds softLimit, the least recently used quarter is
// evicted.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*cacheEntry[V]
	softLimit int
	tick      int64
}

type cacheEntry[V any] struct {
	value V
	atime int64
}

// NewCache creates a new cache with the given soft limit.
// A softLimit of 0 means unlimited.
func NewCache[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*cacheEntry[V]),
		softLimit: softLimit,
	}
}

// Get retrieves a value from the cache.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.tick++
	entry.atime = c.tick
	return entry.value, true
}

// Set stores a value in the cache.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[key] = &cacheEntry[V]{value: value, atime: c.tick}
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*cacheEntry[V])
	c.tick = 0
}

// evictOldest removes entries until 3/4 of softLimit remain.
// Caller must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	target := max(c.softLimit*3/4, 1)
	toEvict := len(c.entries) - target
	if toEvict <= 0 {
		return
	}

	type aged struct {
		key   K
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, atime: e.atime})
	}
	slices.SortFunc(all, func(a, b aged) int {
		return cmp.Compare(a.atime, b.atime)
	})
	for _, e := range all[:toEvict] {
		delete(c.entries, e.key)
	}
}

// Sources memoizes opened fonts by reference, so batch exports parse each
// font file once. Failed opens are not cached.
type Sources struct {
	cache *Cache[string, *FontSource]
	open  func(string) (*FontSource, error)
}

// NewSources returns a font cache holding at most limit sources
// (0 means unlimited).
func NewSources(limit int) *Sources {
	return &Sources{
		cache: NewCache[string, *FontSource](limit),
		open:  Open,
	}
}

// Open returns the cached source for ref, opening it on first use.
func (s *Sources) Open(ref string) (*FontSource, error) {
	if src, ok := s.cache.Get(ref); ok {
		return src, nil
	}
	src, err := s.open(ref)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ref, src)
	Logger().Debug("font opened", "ref", ref, "name", src.Name())
	return src, nil
}
