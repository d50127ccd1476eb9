package api

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"
)

// cachedResult is the outcome of one pipeline call
type cachedResult struct {
	data  []byte
	pages int
}

// resultCache deduplicates identical concurrent requests and keeps the
// most recent results. Entries are evicted oldest first.
type resultCache struct {
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]cachedResult
	order   []string
	limit   int
}

func newResultCache(limit int) *resultCache {
	return &resultCache{entries: make(map[string]cachedResult), limit: limit}
}

// cacheKey identifies an operation on a document under a configuration
func cacheKey(op string, data []byte, config string) string {
	sum := sha256.Sum256(data)
	return op + "|" + hex.EncodeToString(sum[:]) + "|" + config
}

// do returns the cached result for key or runs fn once for all callers
// waiting on the same key. Errors are not cached.
func (c *resultCache) do(key string, fn func() (cachedResult, error)) (cachedResult, error) {
	if r, ok := c.get(key); ok {
		return r, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if r, ok := c.get(key); ok {
			return r, nil
		}
		r, err := fn()
		if err != nil {
			return cachedResult{}, err
		}
		c.put(key, r)
		return r, nil
	})
	if err != nil {
		return cachedResult{}, err
	}
	return v.(cachedResult), nil
}

func (c *resultCache) get(key string) (cachedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	return r, ok
}

func (c *resultCache) put(key string, r cachedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	for len(c.order) >= c.limit && len(c.order) > 0 {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[key] = r
	c.order = append(c.order, key)
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
