package table

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache memoizes parsed tables by content identity so repeated filter and
// chart interactions on the same upload never re-parse it. The key is the
// sha256 of the raw bytes, making the cache testable without any upload
// machinery. Entries live for the whole session; with one file in play at a
// time there is nothing to evict.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Table
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Table)}
}

// Key returns the content-identity key for a byte stream.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GetOrLoad returns the cached Table for data, parsing it on first sight.
// The returned key identifies the content for session bookkeeping. Parse
// failures are not cached; a corrected re-upload of different bytes gets a
// fresh attempt anyway.
func (c *Cache) GetOrLoad(data []byte) (*Table, string, error) {
	key := Key(data)

	c.mu.RLock()
	t, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return t, key, nil
	}

	t, err := LoadBytes(data)
	if err != nil {
		return nil, key, err
	}

	c.mu.Lock()
	c.entries[key] = t
	c.mu.Unlock()
	return t, key, nil
}

// Get returns the cached Table for a key, if present.
func (c *Cache) Get(key string) (*Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[key]
	return t, ok
}

// Len reports the number of distinct uploads parsed so far.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
