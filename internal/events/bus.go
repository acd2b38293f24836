// Package events is a small synchronous bus for local state changes.
// The optimistic store publishes transaction mutations on it and the
// monthly budget tracker subscribes; both get the bus handed to them
// at wiring time, so there is no ambient global to reach for.
package events

import "sync"

// Kind distinguishes transaction mutation events.
type Kind int

const (
	KindCreated Kind = iota
	KindUpdated
	KindDeleted
)

// Mutation describes one local transaction change. Previous is set for
// updates and deletes so subscribers can reverse the delta; After is
// set for creates and updates.
type Mutation struct {
	Kind     Kind
	Before   *MutationRecord
	After    *MutationRecord
	Rollback bool // true when this event reverses an optimistic patch
}

// MutationRecord carries the fields subscribers aggregate over, kept
// free of the full transaction type so the bus stays a leaf package.
type MutationRecord struct {
	ID     string
	Type   string // "income" or "expense"
	Amount int64  // paise
}

// Bus fans a published mutation out to every subscriber, synchronously
// and in subscription order.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Mutation)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(Mutation)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = append(b.subs, fn)
}

func (b *Bus) Publish(m Mutation) {
	b.mu.RLock()
	subs := make([]func(Mutation), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(m)
	}
}
