// Package bus implements the catalog notification stream: a multicast
// fan-out of domain events to zero or more live subscribers, without replay.
package bus

import (
	"log/slog"
	"sync"

	"github.com/heartmarshall/figstore/internal/domain"
)

// Bus broadcasts events to all active subscribers. It has process lifetime;
// there is no shutdown.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan domain.Event
	nextID int
	buffer int
	log    *slog.Logger
}

// New creates a bus whose subscribers each get a queue of the given size.
func New(buffer int, log *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[int]chan domain.Event),
		buffer: buffer,
		log:    log.With("component", "bus"),
	}
}

// Publish delivers the event to every active subscriber. It never blocks:
// a subscriber whose queue is full misses this event (drop-newest). With no
// subscribers attached the event is simply dropped.
func (b *Bus) Publish(event domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.log.Warn("subscriber queue full, dropping event",
				slog.Int("subscriber", id),
				slog.String("kind", event.Kind.String()))
		}
	}
}

// Subscribe attaches a new subscriber. The returned channel receives every
// event published after this call; events published before are never
// delivered. The cancel function detaches the subscriber and closes the
// channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan domain.Event, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan domain.Event, b.buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Subscribers returns the number of attached subscribers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
