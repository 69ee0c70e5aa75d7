package sample

import (
	"sync"
	"sync/atomic"
)

// defaultShaderCacheSize is the number of compiled shaders kept.
const defaultShaderCacheSize = 8

// shaderCache keeps compiled SPIR-V per WGSL source, so reinitializing the
// device after a reset does not recompile. Least recently used entries are
// evicted first. Failed compilations are not cached.
type shaderCache struct {
	mu      sync.Mutex
	limit   int
	entries map[string][]uint32
	order   []string // least recently used first

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// shaderCacheStats reports cache counters.
type shaderCacheStats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

func newShaderCache(limit int) *shaderCache {
	if limit <= 0 {
		limit = defaultShaderCacheSize
	}
	return &shaderCache{limit: limit, entries: make(map[string][]uint32)}
}

var shaders = newShaderCache(defaultShaderCacheSize)

// compile returns the SPIR-V for src, compiling it on a miss. The compile
// runs with the lock held so concurrent misses on one source compile once.
func (c *shaderCache) compile(src string) ([]uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if words, ok := c.entries[src]; ok {
		c.touch(src)
		c.hits.Add(1)
		return words, nil
	}
	c.misses.Add(1)

	words, err := compileSPIRV(src)
	if err != nil {
		return nil, err
	}
	for len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.evictions.Add(1)
	}
	c.entries[src] = words
	c.order = append(c.order, src)
	return words, nil
}

func (c *shaderCache) touch(src string) {
	for i, s := range c.order {
		if s == src {
			c.order = append(append(c.order[:i:i], c.order[i+1:]...), src)
			return
		}
	}
}

func (c *shaderCache) stats() shaderCacheStats {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	return shaderCacheStats{
		Len:       n,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
