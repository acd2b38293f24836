// Package recurring implements recurring transaction schedules: the
// templates users define and the date arithmetic that decides when each
// one produces its next transaction.
package recurring

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/transaction"
)

// ErrNotFound is returned when a recurring transaction does not exist.
var ErrNotFound = errors.New("recurring transaction not found")

// RecurringTransaction is a template that generates transactions on a
// schedule. NextOccurrence is a cached projection of (Schedule,
// StartDate, LastProcessed), never an independent source of truth.
type RecurringTransaction struct {
	ID          uuid.UUID
	Type        transaction.Type
	Amount      int64 // paise
	Description string
	Category    string
	Notes       string

	Schedule       Schedule
	StartDate      time.Time
	EndDate        *time.Time
	LastProcessed  *time.Time
	NextOccurrence time.Time
	IsActive       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NextDue returns the schedule's next occurrence, or ok=false when the
// schedule is exhausted (EndDate passed). Callers must not display or
// process an exhausted schedule.
func (r *RecurringTransaction) NextDue() (time.Time, bool, error) {
	var (
		next time.Time
		err  error
	)

	if r.LastProcessed == nil {
		next, err = Initial(r.Schedule, r.StartDate)
	} else {
		next, err = Advance(r.Schedule, *r.LastProcessed)
	}

	if err != nil {
		return time.Time{}, false, err
	}

	if r.EndDate != nil && next.After(midnight(*r.EndDate)) {
		return time.Time{}, false, nil
	}

	return next, true, nil
}

// MarkProcessed records that the occurrence on occ was materialized and
// refreshes the cached NextOccurrence. Exhaustion leaves NextOccurrence
// zeroed and deactivates the schedule.
func (r *RecurringTransaction) MarkProcessed(occ time.Time) error {
	day := midnight(occ)
	r.LastProcessed = &day

	next, ok, err := r.NextDue()
	if err != nil {
		return err
	}

	if !ok {
		r.NextOccurrence = time.Time{}
		r.IsActive = false

		return nil
	}

	r.NextOccurrence = next

	return nil
}
