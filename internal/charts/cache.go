package charts

import (
	"sync"
	"time"
)

type cacheEntry struct {
	createdAt time.Time
	image     []byte
}

// imageCache is a TTL cache for rendered PNGs, keyed by portfolio and
// data recency. Rendering is cheap but not free, and the dashboard polls.
type imageCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newImageCache(ttl time.Duration) *imageCache {
	return &imageCache{ttl: ttl, entries: map[string]cacheEntry{}}
}

func (c *imageCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.createdAt.Add(c.ttl)) {
		return nil, false
	}
	img := make([]byte, len(entry.image))
	copy(img, entry.image)
	return img, true
}

func (c *imageCache) set(key string, img []byte) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{createdAt: time.Now(), image: img}
	c.mu.Unlock()
}
