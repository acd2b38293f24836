package recurring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=recurring
type Repository interface {
	CreateRecurring(ctx context.Context, r *RecurringTransaction) error
	GetRecurring(ctx context.Context, id uuid.UUID) (*RecurringTransaction, error)
	UpdateRecurring(ctx context.Context, r *RecurringTransaction) error
	DeleteRecurring(ctx context.Context, id uuid.UUID) error
	ListRecurring(ctx context.Context, onlyActive bool) ([]*RecurringTransaction, error)
	ListDue(ctx context.Context, asOf time.Time) ([]*RecurringTransaction, error)
}

// TransactionCreator is the slice of the transaction service the
// recurrence processor needs to materialize due occurrences.
type TransactionCreator interface {
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

type Service struct {
	repo         Repository
	transactions TransactionCreator
}

func NewService(repo Repository, transactions TransactionCreator) *Service {
	return &Service{repo: repo, transactions: transactions}
}

type CreateParams struct {
	Type        transaction.Type
	Amount      int64
	Description string
	Category    string
	Notes       string
	Schedule    Schedule
	StartDate   time.Time
	EndDate     *time.Time
}

func (p CreateParams) validate() error {
	if p.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	if p.EndDate != nil && !p.EndDate.After(p.StartDate) {
		return fmt.Errorf("end date must be after start date")
	}

	return p.Schedule.Validate()
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*RecurringTransaction, error) {
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("invalid recurring transaction: %w", err)
	}

	first, err := Initial(params.Schedule, params.StartDate)
	if err != nil {
		return nil, err
	}

	r := &RecurringTransaction{
		Type:           params.Type,
		Amount:         params.Amount,
		Description:    params.Description,
		Category:       params.Category,
		Notes:          params.Notes,
		Schedule:       params.Schedule,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
		NextOccurrence: first,
		IsActive:       true,
	}
	if err := s.repo.CreateRecurring(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*RecurringTransaction, error) {
	return s.repo.GetRecurring(ctx, id)
}

func (s *Service) List(ctx context.Context, onlyActive bool) ([]*RecurringTransaction, error) {
	return s.repo.ListRecurring(ctx, onlyActive)
}

// Update replaces a schedule's definition. NextOccurrence is a cached
// projection, so it is recomputed from the new schedule; a schedule
// whose end date is already behind the last occurrence deactivates.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*RecurringTransaction, error) {
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("invalid recurring transaction: %w", err)
	}

	r, err := s.repo.GetRecurring(ctx, id)
	if err != nil {
		return nil, err
	}

	r.Type = params.Type
	r.Amount = params.Amount
	r.Description = params.Description
	r.Category = params.Category
	r.Notes = params.Notes
	r.Schedule = params.Schedule
	r.StartDate = params.StartDate
	r.EndDate = params.EndDate

	next, ok, err := r.NextDue()
	if err != nil {
		return nil, err
	}

	if ok {
		r.NextOccurrence = next
	} else {
		r.NextOccurrence = time.Time{}
		r.IsActive = false
	}

	if err := s.repo.UpdateRecurring(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// Delete stops all future generation. Transactions already generated
// from the schedule are not retracted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRecurring(ctx, id)
}

// Toggle pauses or resumes a schedule without deleting it and returns
// the new active state.
func (s *Service) Toggle(ctx context.Context, id uuid.UUID) (bool, error) {
	r, err := s.repo.GetRecurring(ctx, id)
	if err != nil {
		return false, err
	}

	r.IsActive = !r.IsActive

	if err := s.repo.UpdateRecurring(ctx, r); err != nil {
		return false, err
	}

	return r.IsActive, nil
}

// ProcessResult reports what a process-due run materialized.
type ProcessResult struct {
	Created   []*transaction.Transaction
	Processed int
	Exhausted int
}

// ProcessDue materializes every due occurrence of every active
// schedule up to asOf, catching up period by period when a schedule
// was overdue more than once, and advances the cached projections.
func (s *Service) ProcessDue(ctx context.Context, asOf time.Time) (*ProcessResult, error) {
	due, err := s.repo.ListDue(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("listing due schedules: %w", err)
	}

	result := &ProcessResult{}

	for _, r := range due {
		touched := false

		for !r.NextOccurrence.IsZero() && !r.NextOccurrence.After(asOf) {
			occ := r.NextOccurrence

			id := r.ID

			tx, err := s.transactions.Create(ctx, transaction.CreateParams{
				Type:        r.Type,
				Amount:      r.Amount,
				Description: r.Description,
				Category:    r.Category,
				Date:        occ,
				Notes:       r.Notes,
				RecurringID: &id,
			})
			if err != nil {
				return nil, fmt.Errorf("materializing occurrence of %s: %w", r.ID, err)
			}

			result.Created = append(result.Created, tx)

			if err := r.MarkProcessed(occ); err != nil {
				return nil, fmt.Errorf("advancing schedule %s: %w", r.ID, err)
			}

			touched = true
		}

		if !touched {
			continue
		}

		if !r.IsActive {
			result.Exhausted++
		}

		if err := s.repo.UpdateRecurring(ctx, r); err != nil {
			return nil, fmt.Errorf("saving schedule %s: %w", r.ID, err)
		}

		result.Processed++

		slog.Info("processed recurring schedule",
			"id", r.ID, "next", r.NextOccurrence, "active", r.IsActive)
	}

	return result, nil
}

// UpcomingItem pairs a schedule with its countdown for display.
type UpcomingItem struct {
	Recurring *RecurringTransaction
	DueDate   time.Time
	DaysLeft  int
}

// Upcoming lists active schedules due within the given number of days.
func (s *Service) Upcoming(ctx context.Context, asOf time.Time, days int) ([]UpcomingItem, error) {
	all, err := s.repo.ListRecurring(ctx, true)
	if err != nil {
		return nil, err
	}

	var items []UpcomingItem

	for _, r := range all {
		if r.NextOccurrence.IsZero() {
			continue
		}

		left := DaysUntil(r.NextOccurrence, asOf)
		if left < 0 || left > days {
			continue
		}

		items = append(items, UpcomingItem{Recurring: r, DueDate: r.NextOccurrence, DaysLeft: left})
	}

	return items, nil
}
