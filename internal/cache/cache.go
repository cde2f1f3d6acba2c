// Package cache implements the in-process figure cache: a capacity-bounded
// LRU store with an independent age-based background sweep.
//
// The two removal paths share one backing store and one mutex:
//   - capacity eviction removes the least-recently-accessed entry when an
//     insert exceeds Capacity (reads count as use);
//   - the sweeper removes any entry whose figure's UpdatedAt is older than
//     MaxAge, regardless of recency.
package cache

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/figstore/internal/domain"
)

// Config controls cache capacity and sweep behavior.
type Config struct {
	// Capacity is the maximum number of entries held before LRU eviction.
	Capacity int
	// MaxAge is how stale a figure's UpdatedAt may be before the sweeper
	// removes the entry.
	MaxAge time.Duration
	// SweepInterval is the period of the background sweep.
	SweepInterval time.Duration
}

// entry is the value stored in the LRU list elements. The id is kept here
// because eviction starts from list nodes.
type entry struct {
	id  int64
	fig *domain.Figure
}

// Cache is a concurrency-safe figure cache. It owns the sweeper goroutine;
// call Shutdown to stop it. After Shutdown the cache keeps serving reads and
// writes, only auto-expiry stops; pair with Clear for a hard reset.
type Cache struct {
	mu       sync.Mutex
	capacity int
	maxAge   time.Duration
	items    map[int64]*list.Element
	lru      *list.List // Front = most recently used, Back = least

	stop     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	log *slog.Logger
}

// New constructs a cache and starts the background sweeper.
func New(cfg Config, log *slog.Logger) *Cache {
	c := &Cache{
		capacity: cfg.Capacity,
		maxAge:   cfg.MaxAge,
		items:    make(map[int64]*list.Element),
		lru:      list.New(),
		stop:     make(chan struct{}),
		log:      log.With("component", "cache"),
	}

	c.wg.Add(1)
	go c.sweepLoop(cfg.SweepInterval)

	return c
}

// Put stores a figure under the given id. An existing entry is replaced and
// its recency bumped. Inserting beyond capacity evicts the
// least-recently-accessed entry.
func (c *Cache) Put(id int64, fig *domain.Figure) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[id]; ok {
		el.Value.(*entry).fig = fig
		c.lru.MoveToFront(el)
		return
	}

	c.items[id] = c.lru.PushFront(&entry{id: id, fig: fig})

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.removeElement(oldest)
			c.log.Debug("evicted least recently used figure",
				slog.Int64("id", oldest.Value.(*entry).id))
		}
	}
}

// Get returns the cached figure for id, bumping its recency.
// The second return is false when the id is absent.
func (c *Cache) Get(id int64) (*domain.Figure, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[id]
	if !ok {
		return nil, false
	}

	c.lru.MoveToFront(el)
	return el.Value.(*entry).fig, true
}

// Remove drops the entry for id. Removing an absent id is a no-op.
func (c *Cache) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[id]; ok {
		c.removeElement(el)
	}
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[int64]*list.Element)
	c.lru.Init()
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Shutdown stops the background sweeper and waits for it to exit.
// Safe to call multiple times. The cache itself stays usable.
func (c *Cache) Shutdown() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	c.wg.Wait()
}

// removeElement must be called with the mutex held.
func (c *Cache) removeElement(el *list.Element) {
	c.lru.Remove(el)
	delete(c.items, el.Value.(*entry).id)
}

func (c *Cache) sweepLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

// sweep removes every entry whose figure's UpdatedAt is older than MaxAge.
func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for el := c.lru.Front(); el != nil; {
		next := el.Next()
		e := el.Value.(*entry)
		if e.fig.UpdatedAt.Add(c.maxAge).Before(now) {
			c.removeElement(el)
			c.log.Debug("expired figure from cache", slog.Int64("id", e.id))
		}
		el = next
	}
}
