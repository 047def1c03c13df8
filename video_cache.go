package slp

import (
	"container/list"
	"image"
)

// frameCache is a FIFO-eviction cache of decoded frame bitmaps, bounded by
// a configurable capacity (SPEC_FULL.md §5). Not safe for concurrent use by
// multiple goroutines without external synchronization.
type frameCache struct {
	capacity int
	order    *list.List
	entries  map[int]*list.Element
}

type frameCacheEntry struct {
	idx int
	img image.Image
}

func newFrameCache(capacity int) *frameCache {
	if capacity <= 0 {
		capacity = defaultImageCacheCapacity
	}
	return &frameCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[int]*list.Element),
	}
}

// get returns the cached image for idx, if present.
func (c *frameCache) get(idx int) (image.Image, bool) {
	el, ok := c.entries[idx]
	if !ok {
		return nil, false
	}
	return el.Value.(*frameCacheEntry).img, true
}

// put inserts idx's decoded image, evicting the oldest entry first-in if the
// cache is at capacity and idx was not already present (idempotent populate:
// a repeated put for an already-cached idx is a no-op).
func (c *frameCache) put(idx int, img image.Image) {
	if _, ok := c.entries[idx]; ok {
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			entry := oldest.Value.(*frameCacheEntry)
			delete(c.entries, entry.idx)
			c.order.Remove(oldest)
		}
	}
	el := c.order.PushBack(&frameCacheEntry{idx: idx, img: img})
	c.entries[idx] = el
}
