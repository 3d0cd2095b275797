package scheduler

import (
	"container/list"

	"github.com/logannye/streaming-zero-knowledge-proofs/fold"
)

// SpanKey addresses a tree node by its (level, index) position: level is
// the merge depth (0 for leaves), index is the node's 0-based position
// among nodes at that level, in left-to-right order.
type SpanKey struct {
	Level uint32
	Index uint32
}

// EndpointCache is a small, hand-rolled LRU keyed by SpanKey, holding
// recently accessed fold.Endpoint values. It exists for minram-mode verify,
// which discards interior proof bodies from the bundle and re-reads them
// from the sidecar: repeated lookups of the same span (e.g. a wrap
// referencing the current top node) are served from cache instead of
// re-reading and re-decoding the sidecar record. Capacity 0 disables
// caching entirely (Get always misses, Put is a no-op).
type EndpointCache struct {
	capacity int
	ll       *list.List // front = most recently used
	items    map[SpanKey]*list.Element
}

type cacheEntry struct {
	key SpanKey
	val fold.Endpoint
}

// NewEndpointCache returns a cache holding at most capacity entries.
func NewEndpointCache(capacity int) *EndpointCache {
	return &EndpointCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[SpanKey]*list.Element),
	}
}

// Get returns the cached endpoint for key, touching it as most-recently-used.
func (c *EndpointCache) Get(key SpanKey) (fold.Endpoint, bool) {
	if c.capacity <= 0 {
		return fold.Endpoint{}, false
	}
	el, ok := c.items[key]
	if !ok {
		return fold.Endpoint{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).val, true
}

// Put inserts or updates key's cached endpoint, evicting the
// least-recently-used entry if the cache is at capacity. A capacity of 0
// makes Put a no-op.
func (c *EndpointCache) Put(key SpanKey, val fold.Endpoint) {
	if c.capacity <= 0 {
		return
	}
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).val = val
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		back := c.ll.Back()
		if back != nil {
			c.ll.Remove(back)
			delete(c.items, back.Value.(*cacheEntry).key)
		}
	}
	el := c.ll.PushFront(&cacheEntry{key: key, val: val})
	c.items[key] = el
}

// Len returns the number of entries currently cached.
func (c *EndpointCache) Len() int {
	return c.ll.Len()
}
