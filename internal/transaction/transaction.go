package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type represents the direction of a transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// ErrNotFound is returned when a transaction does not exist.
var ErrNotFound = errors.New("transaction not found")

// Categories is the fixed taxonomy transactions are filed under. The
// wire layer carries category strings verbatim; this list only drives
// form choices and client-side validation.
var Categories = []string{
	"Salary",
	"Business",
	"Investments",
	"Food & Dining",
	"Groceries",
	"Transport",
	"Housing",
	"Utilities",
	"Healthcare",
	"Entertainment",
	"Shopping",
	"Education",
	"Travel",
	"Other",
}

// Transaction represents a single money movement. Amount is always a
// non-negative magnitude in paise; direction is carried by Type.
type Transaction struct {
	ID          uuid.UUID
	Type        Type
	Amount      int64 // paise
	Description string
	Category    string
	Date        time.Time
	Notes       string
	IsRecurring bool
	RecurringID *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy, used by the optimistic store to snapshot
// pre-mutation state for rollback.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.RecurringID != nil {
		id := *t.RecurringID
		c.RecurringID = &id
	}

	return &c
}
