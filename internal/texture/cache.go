package texture

import (
	"image"
	"sync"
)

// Resolver resolves a texture name to a decoded image. Resolve returns nil if
// the texture is unavailable; Load also reports why.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
	Load(texName string) (*image.NRGBA, error)
}

// Cache is a concurrency-safe texture cache. Names are looked up in the index
// first and then tried as plain file paths.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a new texture cache backed by the given index (may be nil).
func NewCache(index *Index) *Cache {
	if index == nil {
		index = &Index{entries: map[string]string{}}
	}
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found or not
// decodable.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	img, _ := c.Load(texName)
	return img
}

// Load is Resolve with the load error.
func (c *Cache) Load(texName string) (*image.NRGBA, error) {
	path := c.path(texName)

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := LoadTexture(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}

func (c *Cache) path(texName string) string {
	if p, ok := c.index.ResolvePath(texName); ok {
		return p
	}
	return texName
}
