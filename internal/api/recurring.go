package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/money"
	"github.com/arjunks/kharcha/internal/recurring"
	"github.com/arjunks/kharcha/internal/transaction"
)

// RecurringTransaction is the wire form of a recurring schedule. The
// anchor fields travel flattened next to the frequency, zero-valued
// when the frequency does not use them.
type RecurringTransaction struct {
	ID             string       `json:"id"`
	Type           string       `json:"type"`
	Amount         money.Amount `json:"amount"`
	Description    string       `json:"description"`
	Category       Category     `json:"category"`
	Notes          string       `json:"notes,omitempty"`
	Frequency      string       `json:"frequency"`
	DayOfWeek      int          `json:"day_of_week,omitempty"`
	DayOfMonth     int          `json:"day_of_month,omitempty"`
	MonthOfYear    int          `json:"month_of_year,omitempty"`
	StartDate      string       `json:"start_date"`
	EndDate        string       `json:"end_date,omitempty"`
	LastProcessed  string       `json:"last_processed,omitempty"`
	NextOccurrence string       `json:"next_occurrence,omitempty"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func RecurringToWire(r *recurring.RecurringTransaction) RecurringTransaction {
	w := RecurringTransaction{
		ID:          r.ID.String(),
		Type:        string(r.Type),
		Amount:      money.Amount(r.Amount),
		Description: r.Description,
		Category:    Category{Name: r.Category},
		Notes:       r.Notes,
		Frequency:   string(r.Schedule.Frequency),
		DayOfWeek:   int(r.Schedule.DayOfWeek),
		DayOfMonth:  r.Schedule.DayOfMonth,
		MonthOfYear: int(r.Schedule.MonthOfYear),
		StartDate:   r.StartDate.Format(time.DateOnly),
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	if r.EndDate != nil {
		w.EndDate = r.EndDate.Format(time.DateOnly)
	}

	if r.LastProcessed != nil {
		w.LastProcessed = r.LastProcessed.Format(time.DateOnly)
	}

	if !r.NextOccurrence.IsZero() {
		w.NextOccurrence = r.NextOccurrence.Format(time.DateOnly)
	}

	return w
}

func RecurringFromWire(w RecurringTransaction) (*recurring.RecurringTransaction, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing recurring id: %w", err)
	}

	start, err := time.Parse(time.DateOnly, w.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}

	r := &recurring.RecurringTransaction{
		ID:          id,
		Type:        transaction.Type(w.Type),
		Amount:      w.Amount.Paise(),
		Description: w.Description,
		Category:    w.Category.Name,
		Notes:       w.Notes,
		Schedule: recurring.Schedule{
			Frequency:   recurring.Frequency(w.Frequency),
			DayOfWeek:   time.Weekday(w.DayOfWeek),
			DayOfMonth:  w.DayOfMonth,
			MonthOfYear: time.Month(w.MonthOfYear),
		},
		StartDate: start,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}

	if w.EndDate != "" {
		end, err := time.Parse(time.DateOnly, w.EndDate)
		if err != nil {
			return nil, fmt.Errorf("parsing end date: %w", err)
		}

		r.EndDate = &end
	}

	if w.LastProcessed != "" {
		last, err := time.Parse(time.DateOnly, w.LastProcessed)
		if err != nil {
			return nil, fmt.Errorf("parsing last processed date: %w", err)
		}

		r.LastProcessed = &last
	}

	if w.NextOccurrence != "" {
		next, err := time.Parse(time.DateOnly, w.NextOccurrence)
		if err != nil {
			return nil, fmt.Errorf("parsing next occurrence: %w", err)
		}

		r.NextOccurrence = next
	}

	return r, nil
}

func RecurringsFromWire(ws []RecurringTransaction) ([]*recurring.RecurringTransaction, error) {
	rs := make([]*recurring.RecurringTransaction, 0, len(ws))

	for _, w := range ws {
		r, err := RecurringFromWire(w)
		if err != nil {
			return nil, err
		}

		rs = append(rs, r)
	}

	return rs, nil
}

func RecurringsToWire(rs []*recurring.RecurringTransaction) []RecurringTransaction {
	ws := make([]RecurringTransaction, 0, len(rs))
	for _, r := range rs {
		ws = append(ws, RecurringToWire(r))
	}

	return ws
}

// CreateRecurringRequest is the create payload for a schedule.
type CreateRecurringRequest struct {
	Type        string       `json:"type"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	Category    Category     `json:"category"`
	Notes       string       `json:"notes,omitempty"`
	Frequency   string       `json:"frequency"`
	DayOfWeek   int          `json:"day_of_week,omitempty"`
	DayOfMonth  int          `json:"day_of_month,omitempty"`
	MonthOfYear int          `json:"month_of_year,omitempty"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date,omitempty"`
}

// UpdateRecurringRequest replaces a schedule's full definition, so it
// shares the create shape.
type UpdateRecurringRequest = CreateRecurringRequest

// ToggleResponse reports a schedule's active state after a toggle.
type ToggleResponse struct {
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
}

// ProcessDueResponse reports what a process-due run materialized.
type ProcessDueResponse struct {
	Created   []Transaction `json:"created"`
	Processed int           `json:"processed"`
	Exhausted int           `json:"exhausted"`
}

// UpcomingItem pairs a schedule with its countdown.
type UpcomingItem struct {
	Recurring RecurringTransaction `json:"recurring"`
	DueDate   string               `json:"due_date"`
	DaysLeft  int                  `json:"days_left"`
}

func UpcomingToWire(items []recurring.UpcomingItem) []UpcomingItem {
	ws := make([]UpcomingItem, 0, len(items))
	for _, it := range items {
		ws = append(ws, UpcomingItem{
			Recurring: RecurringToWire(it.Recurring),
			DueDate:   it.DueDate.Format(time.DateOnly),
			DaysLeft:  it.DaysLeft,
		})
	}

	return ws
}
