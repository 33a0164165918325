package dataset

import (
	"context"
	"sync"
)

// Cache memoizes loaded datasets by path for the life of the process.
// Failed loads are not remembered, so the next Get tries again.
type Cache struct {
	loader *Loader

	mu      sync.Mutex
	entries map[string]*Dataset
	loads   int
}

// NewCache creates a Cache that loads through loader.
func NewCache(loader *Loader) *Cache {
	return &Cache{
		loader:  loader,
		entries: make(map[string]*Dataset),
	}
}

// Get returns the dataset at path, loading it on first use.
func (c *Cache) Get(ctx context.Context, path string) (*Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ds, ok := c.entries[path]; ok {
		return ds, nil
	}

	c.loads++
	ds, err := c.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	c.entries[path] = ds
	return ds, nil
}

// Loads reports how many times the cache has gone to the loader.
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}
