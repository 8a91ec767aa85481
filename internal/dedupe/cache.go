package dedupe

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	id string
	at time.Time
}

// Cache remembers recently indexed review IDs so redelivered events can be
// skipped. It is bounded both by capacity and by ttl.
type Cache struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	seen     map[string]time.Time
	order    []entry
	capacity int
	ttl      time.Duration
}

// NewCache creates a cache with the provided capacity and ttl. A nil clock
// means wall-clock time.
func NewCache(capacity int, ttl time.Duration, clock clockwork.Clock) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{
		clock:    clock,
		seen:     make(map[string]time.Time, capacity),
		order:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Seen reports whether id was marked within the ttl window.
func (c *Cache) Seen(id string) bool {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	at, ok := c.seen[id]
	return ok && now.Sub(at) <= c.ttl
}

// Mark records id as indexed.
func (c *Cache) Mark(id string) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seen[id] = now
	c.order = append(c.order, entry{id: id, at: now})
	c.compact(now)
}

// Len returns the number of IDs currently remembered.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *Cache) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.seen) > c.capacity || c.order[0].at.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		// A later Mark of the same id supersedes this entry.
		if at, ok := c.seen[oldest.id]; ok && at.Equal(oldest.at) {
			delete(c.seen, oldest.id)
		}
	}
}
