package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/summary"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	DeleteTransactions(ctx context.Context, ids []uuid.UUID) (int, error)

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	SummarizeTransactions(ctx context.Context, start, end time.Time) (summary.PeriodSummary, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	Type        *Type
	Category    *string
	RecurringID *uuid.UUID
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		Type:        params.Type,
		Amount:      params.Amount,
		Description: params.Description,
		Category:    params.Category,
		Date:        params.Date,
		Notes:       params.Notes,
		IsRecurring: params.RecurringID != nil,
		RecurringID: params.RecurringID,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	params.ApplyTo(tx, time.Now().UTC())

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := s.repo.DeleteTransactions(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}

	return n, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Summarize totals income and expenses for the period [start, end].
func (s *Service) Summarize(ctx context.Context, start, end time.Time) (summary.PeriodSummary, error) {
	return s.repo.SummarizeTransactions(ctx, start, end)
}
