package events

import (
	"sync"

	"github.com/cbodonnell/snake/pkg/log"
)

// Bus fans events out to subscriptions. Publish never blocks: a
// subscription whose buffer is full misses the event.
type Bus struct {
	lock          sync.Mutex
	bufferSize    int
	nextID        uint64
	subscriptions map[uint64]*Subscription
	closed        bool
	logger        *log.Logger
}

// NewBus creates a bus whose subscriptions buffer bufferSize events.
// A nil logger uses the package logger.
func NewBus(bufferSize int, logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	return &Bus{
		bufferSize:    bufferSize,
		subscriptions: make(map[uint64]*Subscription),
		logger:        logger,
	}
}

// Subscribe returns a subscription that receives every event published
// after this call until it is closed.
func (b *Bus) Subscribe() *Subscription {
	b.lock.Lock()
	defer b.lock.Unlock()

	sub := &Subscription{
		id:  b.nextID,
		ch:  make(chan interface{}, b.bufferSize),
		bus: b,
	}
	b.nextID++
	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subscriptions[sub.id] = sub
	return sub
}

func (b *Bus) Publish(event interface{}) {
	b.lock.Lock()
	defer b.lock.Unlock()

	for id, sub := range b.subscriptions {
		select {
		case sub.ch <- event:
		default:
			b.logger.Warn("Dropping %T for subscription %d: buffer full", event, id)
		}
	}
}

// Close closes every subscription. Later subscriptions are closed immediately.
func (b *Bus) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.closed = true
	for id, sub := range b.subscriptions {
		close(sub.ch)
		delete(b.subscriptions, id)
	}
}

func (b *Bus) unsubscribe(id uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if sub, ok := b.subscriptions[id]; ok {
		close(sub.ch)
		delete(b.subscriptions, id)
	}
}

// Len returns the number of open subscriptions.
func (b *Bus) Len() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.subscriptions)
}

type Subscription struct {
	id   uint64
	ch   chan interface{}
	bus  *Bus
	once sync.Once
}

// Events is closed once the subscription or its bus is closed.
func (s *Subscription) Events() <-chan interface{} {
	return s.ch
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.unsubscribe(s.id)
	})
}
