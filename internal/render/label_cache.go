package render

import (
	"container/list"
	"image"
	"sync"
)

// DefaultMaxLabels bounds the label cache when no size is given
const DefaultMaxLabels = 256

type labelKey struct {
	text string
	size float64
}

type labelEntry struct {
	key labelKey
	img image.Image
}

// LabelCache stores rendered text images with LRU eviction. Damage numbers
// and HUD lines repeat every frame, so each (text, size) pair is drawn once.
type LabelCache struct {
	mu      sync.Mutex
	items   map[labelKey]*list.Element
	order   *list.List // front is most recently used
	maxSize int
	draw    func(text string, size float64) image.Image

	hits   uint64
	misses uint64
}

// NewLabelCache creates a cache that renders misses with draw.
func NewLabelCache(maxSize int, draw func(text string, size float64) image.Image) *LabelCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxLabels
	}
	return &LabelCache{
		items:   make(map[labelKey]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
		draw:    draw,
	}
}

// Get returns the label for text at size, drawing it on a miss.
func (c *LabelCache) Get(text string, size float64) image.Image {
	key := labelKey{text, size}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		c.hits++
		return el.Value.(*labelEntry).img
	}

	c.misses++
	img := c.draw(text, size)

	// Evict if at capacity
	if c.order.Len() >= c.maxSize {
		c.evict()
	}
	c.items[key] = c.order.PushFront(&labelEntry{key: key, img: img})
	return img
}

// evict removes the least recently used label
func (c *LabelCache) evict() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.items, oldest.Value.(*labelEntry).key)
}

// Len returns the current cache size
func (c *LabelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns hit and miss counts
func (c *LabelCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
