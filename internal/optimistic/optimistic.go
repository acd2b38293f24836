// Package optimistic keeps the client's local transaction collection
// and applies mutations to it before the server has confirmed them.
// Every staged mutation is a command object: a Patch that knows how to
// undo exactly itself, registered under a generated operation id so
// concurrent in-flight operations roll back independently.
package optimistic

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/events"
	"github.com/arjunks/kharcha/internal/transaction"
)

// Patch is the handle for one staged mutation. Temp is set for staged
// creates so the caller can read the placeholder record.
type Patch struct {
	OpID uuid.UUID
	Temp *transaction.Transaction

	undo    func()
	inverse events.Mutation
}

// Store is the process-wide local transaction collection. All reads
// and writes go through it; nothing else may touch the slice, which is
// what keeps the alert tracker's recompute invariant valid.
type Store struct {
	mu      sync.Mutex
	txs     []*transaction.Transaction
	pending map[uuid.UUID]*Patch
	bus     *events.Bus
	now     func() time.Time
}

func NewStore(bus *events.Bus) *Store {
	return &Store{
		pending: make(map[uuid.UUID]*Patch),
		bus:     bus,
		now:     time.Now,
	}
}

// Replace swaps in a server-fetched collection, e.g. after a refetch.
func (s *Store) Replace(txs []*transaction.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = make([]*transaction.Transaction, len(txs))
	copy(s.txs, txs)
}

// All returns a copy of the collection in display order.
func (s *Store) All() []*transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*transaction.Transaction, len(s.txs))
	copy(out, s.txs)

	return out
}

// Pending reports how many staged patches await commit or rollback.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// StageCreate prepends a placeholder record with a temporary id before
// the server responds.
func (s *Store) StageCreate(params transaction.CreateParams) *Patch {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	temp := &transaction.Transaction{
		ID:          uuid.New(), // temporary, reconciled on confirm
		Type:        params.Type,
		Amount:      params.Amount,
		Description: params.Description,
		Category:    params.Category,
		Date:        params.Date,
		Notes:       params.Notes,
		IsRecurring: params.RecurringID != nil,
		RecurringID: params.RecurringID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.txs = append([]*transaction.Transaction{temp}, s.txs...)

	p := &Patch{
		OpID: uuid.New(),
		Temp: temp,
		undo: func() { s.removeByID(temp.ID) },
		inverse: events.Mutation{
			Kind:     events.KindDeleted,
			Before:   record(temp),
			Rollback: true,
		},
	}
	s.pending[p.OpID] = p

	s.publish(events.Mutation{Kind: events.KindCreated, After: record(temp)})

	return p
}

// StageUpdate merges the patch fields into the matching record and
// refreshes its UpdatedAt.
func (s *Store) StageUpdate(id uuid.UUID, params transaction.UpdateParams) (*Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("staging update: %w", transaction.ErrNotFound)
	}

	previous := s.txs[idx].Clone()
	updated := s.txs[idx].Clone()
	params.ApplyTo(updated, s.now())
	s.txs[idx] = updated

	p := &Patch{
		OpID: uuid.New(),
		undo: func() { s.restore(previous) },
		inverse: events.Mutation{
			Kind:     events.KindUpdated,
			Before:   record(updated),
			After:    record(previous),
			Rollback: true,
		},
	}
	s.pending[p.OpID] = p

	s.publish(events.Mutation{Kind: events.KindUpdated, Before: record(previous), After: record(updated)})

	return p, nil
}

// StageDelete removes the matching record, remembering its position so
// a rollback reinserts it exactly where it was.
func (s *Store) StageDelete(id uuid.UUID) (*Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("staging delete: %w", transaction.ErrNotFound)
	}

	removed := s.txs[idx]
	s.txs = append(s.txs[:idx], s.txs[idx+1:]...)

	p := &Patch{
		OpID: uuid.New(),
		undo: func() { s.insertAt(idx, removed) },
		inverse: events.Mutation{
			Kind:     events.KindCreated,
			After:    record(removed),
			Rollback: true,
		},
	}
	s.pending[p.OpID] = p

	s.publish(events.Mutation{Kind: events.KindDeleted, Before: record(removed)})

	return p, nil
}

// Commit retires a patch after the server confirmed the mutation.
func (s *Store) Commit(p *Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, p.OpID)
}

// ConfirmCreate retires a staged create and swaps the placeholder for
// the server-confirmed record, reconciling the temporary id.
func (s *Store) ConfirmCreate(p *Patch, confirmed *transaction.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, p.OpID)

	if p.Temp == nil {
		return
	}

	if idx := s.indexOf(p.Temp.ID); idx >= 0 {
		s.txs[idx] = confirmed
	}
}

// ConfirmUpdate retires a staged update and overwrites the record with
// the server's authoritative copy. When two updates to the same record
// are in flight and their responses resolve out of order, the last
// response to resolve wins.
func (s *Store) ConfirmUpdate(p *Patch, confirmed *transaction.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, p.OpID)

	if idx := s.indexOf(confirmed.ID); idx >= 0 {
		s.txs[idx] = confirmed
	}
}

// Rollback applies the exact inverse of the patch, restoring the
// collection to its pre-operation shape. It is all-or-nothing and
// touches only this patch's records; other in-flight patches keep
// their effects.
func (s *Store) Rollback(p *Patch) {
	s.mu.Lock()

	if _, ok := s.pending[p.OpID]; !ok {
		s.mu.Unlock()
		return // already committed or rolled back
	}

	delete(s.pending, p.OpID)
	p.undo()
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(p.inverse)
	}
}

// Callers must hold the lock for the helpers below.

func (s *Store) indexOf(id uuid.UUID) int {
	for i, tx := range s.txs {
		if tx.ID == id {
			return i
		}
	}

	return -1
}

func (s *Store) removeByID(id uuid.UUID) {
	if idx := s.indexOf(id); idx >= 0 {
		s.txs = append(s.txs[:idx], s.txs[idx+1:]...)
	}
}

func (s *Store) restore(previous *transaction.Transaction) {
	if idx := s.indexOf(previous.ID); idx >= 0 {
		s.txs[idx] = previous
	}
}

func (s *Store) insertAt(idx int, tx *transaction.Transaction) {
	if idx > len(s.txs) {
		idx = len(s.txs)
	}

	s.txs = append(s.txs[:idx], append([]*transaction.Transaction{tx}, s.txs[idx:]...)...)
}

func (s *Store) publish(m events.Mutation) {
	if s.bus != nil {
		// Publish outside the lock would be nicer, but subscribers are
		// synchronous and must observe the state they were notified
		// about; the bus never calls back into the store.
		s.bus.Publish(m)
	}
}

func record(tx *transaction.Transaction) *events.MutationRecord {
	return &events.MutationRecord{
		ID:     tx.ID.String(),
		Type:   string(tx.Type),
		Amount: tx.Amount,
	}
}
