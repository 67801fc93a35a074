package generator

// defaultCacheEntries bounds the rendered-note cache. At typical note
// lengths one entry is a few tens of kilobytes, so the bound keeps the
// cache in the low-megabyte range.
const defaultCacheEntries = 128

// bufferCache is a bounded FIFO cache of rendered notes. Insertion
// order is eviction order regardless of hits. Both put and get copy, so
// cached samples are never aliased by callers.
type bufferCache struct {
	max     int
	keys    []string
	entries map[string][]float64
}

func newBufferCache(max int) *bufferCache {
	return &bufferCache{
		max:     max,
		entries: make(map[string][]float64, max),
	}
}

func (c *bufferCache) get(key string) ([]float64, bool) {
	stored, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(stored))
	copy(out, stored)
	return out, true
}

func (c *bufferCache) put(key string, samples []float64) {
	if _, ok := c.entries[key]; ok {
		return
	}
	if len(c.keys) >= c.max {
		oldest := c.keys[0]
		c.keys = c.keys[1:]
		delete(c.entries, oldest)
	}
	stored := make([]float64, len(samples))
	copy(stored, samples)
	c.keys = append(c.keys, key)
	c.entries[key] = stored
}

func (c *bufferCache) len() int {
	return len(c.keys)
}

func (c *bufferCache) clear() {
	c.keys = c.keys[:0]
	c.entries = make(map[string][]float64, c.max)
}
