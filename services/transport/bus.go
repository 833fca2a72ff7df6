package transport

import (
	"sort"
	"sync"
)

// EventBus is the process-wide broadcast surface for inbound transport
// events. Components outside the manager's direct subscriber list (pages,
// dashboards) observe events here without holding a channel reference.
type EventBus struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]func(payload any)
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[string]map[int]func(payload any))}
}

// Subscribe registers fn for the named event and returns a cancel func.
// Cancelling is idempotent.
func (b *EventBus) Subscribe(event string, fn func(payload any)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[event] == nil {
		b.subs[event] = make(map[int]func(payload any))
	}
	id := b.next
	b.next++
	b.subs[event][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[event], id)
	}
}

// Publish delivers payload to every subscriber of event, synchronously and
// in subscription order for a single publisher.
func (b *EventBus) Publish(event string, payload any) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs[event]))
	for id := range b.subs[event] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(any), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.subs[event][id])
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(payload)
	}
}
