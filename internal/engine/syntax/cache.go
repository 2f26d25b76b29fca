package syntax

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores scope trees keyed by buffer revision.
// It is safe for concurrent use.
type Cache struct {
	store *gocache.Cache
}

// NewCache creates a cache whose entries expire after ttl.
// A non-positive ttl keeps entries until Flush.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{store: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Cache{store: gocache.New(ttl, 2*ttl)}
}

// Get returns the tree stored under key.
func (c *Cache) Get(key string) (*ScopeTree, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	tree, ok := v.(*ScopeTree)
	return tree, ok
}

// Put stores a tree under key with the default expiration.
func (c *Cache) Put(key string, tree *ScopeTree) {
	c.store.SetDefault(key, tree)
}

// GetOrParse returns the cached tree for key, parsing text on a miss.
func (c *Cache) GetOrParse(key, text string, lang Language) *ScopeTree {
	if tree, ok := c.Get(key); ok {
		return tree
	}
	tree := Parse(text, lang)
	c.Put(key, tree)
	return tree
}

// Delete removes the entry for key.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Len returns the number of cached trees, including expired ones not yet
// cleaned up.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// Flush removes every entry.
func (c *Cache) Flush() {
	c.store.Flush()
}
