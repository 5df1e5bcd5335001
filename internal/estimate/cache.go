package estimate

import (
	"container/list"
	"sync"
)

// fifoCache is a bounded map with insertion-order eviction. It is owned by
// one Estimator and only reachable through it. Lookups do not refresh an
// entry's position: the eviction policy is strict FIFO, not LRU, because the
// cache exists for perceived responsiveness only and a stale hit is always
// acceptable.
type fifoCache struct {
	capacity int

	mu     sync.Mutex
	order  *list.List // of string keys, front = oldest
	values map[string]int64
}

func newFIFOCache(capacity int) *fifoCache {
	if capacity < 1 {
		capacity = 1
	}
	return &fifoCache{
		capacity: capacity,
		order:    list.New(),
		values:   make(map[string]int64, capacity),
	}
}

func (c *fifoCache) Get(key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *fifoCache) Add(key string, value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; ok {
		c.values[key] = value
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.values, oldest.Value.(string))
		}
	}
	c.order.PushBack(key)
	c.values[key] = value
}

func (c *fifoCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *fifoCache) Capacity() int { return c.capacity }
