package signal

import (
	"log/slog"
	"sync"
)

// subscriberBuffer bounds each subscription channel. A subscriber that
// cannot keep up loses events rather than blocking publishers.
const subscriberBuffer = 64

// Bus is a multi-producer multi-consumer broadcast of Signals.
type Bus struct {
	logger *slog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan Signal
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger: logger,
		subs:   make(map[int]chan Signal),
	}
}

// Publish delivers sig to every subscriber, best-effort. It never blocks:
// subscribers with a full buffer miss the event and a warning is logged.
func (b *Bus) Publish(sig Signal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- sig:
		default:
			b.logger.Warn("signal dropped for slow subscriber",
				"subscriber", id, "kind", int(sig.Kind))
		}
	}
}

// Subscription is a handle onto the bus. Receive from C until Cancel.
type Subscription struct {
	C      <-chan Signal
	id     int
	bus    *Bus
	cancel sync.Once
}

// Subscribe registers a new subscriber with a bounded buffer.
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan Signal, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	return &Subscription{C: ch, id: id, bus: b}
}

// Cancel removes the subscription; pending buffered events are discarded.
// Publishers are unaffected.
func (s *Subscription) Cancel() {
	s.cancel.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.id)
		s.bus.mu.Unlock()
	})
}
