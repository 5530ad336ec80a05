package gauges

import (
	"context"
	"sync"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
	"github.com/couchcryptid/storm-surge-setup/internal/observability"
)

// stamper is implemented by sources that can tell whether a gauge changed
// without parsing it.
type stamper interface {
	Stamp(id int) (Stamp, error)
}

// CachedSource wraps a GaugeSource with an in-memory LRU cache. When the inner
// source is a stamper, an entry is only served while its file is unchanged, so
// gauges the solver is still writing are re-read as they grow.
type CachedSource struct {
	inner   domain.GaugeSource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a gauge source.
func NewCachedSource(inner domain.GaugeSource, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedSource) Gauge(ctx context.Context, id int) (domain.GaugeSolution, error) {
	var stamp Stamp
	if s, ok := c.inner.(stamper); ok {
		st, err := s.Stamp(id)
		if err != nil {
			return domain.GaugeSolution{}, err
		}
		stamp = st
	}
	if cg, ok := c.cache.get(id); ok && cg.stamp.matches(stamp) {
		c.metrics.GaugeCache.WithLabelValues("hit").Inc()
		return cg.solution, nil
	}
	c.metrics.GaugeCache.WithLabelValues("miss").Inc()
	g, err := c.inner.Gauge(ctx, id)
	if err != nil {
		return g, err
	}
	// Only cache series with samples so a gauge still being written is re-read.
	if len(g.Times) > 0 {
		c.cache.put(id, cachedGauge{solution: g, stamp: stamp})
	}
	return g, nil
}

type cachedGauge struct {
	solution domain.GaugeSolution
	stamp    Stamp
}

// lruCache is a simple thread-safe LRU cache of gauge solutions keyed by id.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[int]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   int
	value cachedGauge
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[int]*entry),
	}
}

func (c *lruCache) get(key int) (cachedGauge, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return cachedGauge{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key int, value cachedGauge) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
