package web

import "sync"

type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a fixed size ring of recently sent payloads, keyed
// by their hash. Clients keep a mirror of it, so that repeated
// frames are sent as a slot index.
type cache struct {
	cache   []*cacheEntry
	idx     int
	enabled bool
	size    int
	sync.RWMutex
}

func newCache(size int) *cache {
	c := &cache{
		cache:   make([]*cacheEntry, size),
		size:    size,
		enabled: size > 0,
	}
	for i := 0; i < size; i++ {
		c.cache[i] = &cacheEntry{}
	}

	return c
}

// add stores output in the next slot, evicting the oldest
// entry, and returns the slot used.
func (c *cache) add(hash uint64, output []byte) int {
	slot := c.idx
	c.cache[slot].data = output
	c.cache[slot].hash = hash

	c.idx = (c.idx + 1) % c.size
	return slot
}

// index returns the slot holding hash, or -1.
func (c *cache) index(hash uint64) int {
	if !c.enabled {
		return -1
	}
	for i, e := range c.cache {
		if e.data != nil && e.hash == hash {
			return i
		}
	}

	return -1
}
