package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectBudgetColumns = `
	id, category, amount, period, spent, remaining, percentage_used,
	is_active, start_date, end_date, created_at, updated_at
`

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	var periodStr string

	var endDate sql.NullTime

	if err := s.Scan(
		&b.ID, &b.Category, &b.Amount, &periodStr, &b.Spent, &b.Remaining, &b.PercentageUsed,
		&b.IsActive, &b.StartDate, &endDate, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Period = budget.Period(periodStr)

	if endDate.Valid {
		b.EndDate = &endDate.Time
	}

	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (category, amount, period, spent, remaining, percentage_used, is_active, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		b.Category, b.Amount, b.Period, b.Spent, b.Remaining, b.PercentageUsed,
		b.IsActive, b.StartDate, b.EndDate,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating budget: %w", err)
	}

	return nil
}

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets WHERE id = $1`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets
		SET category = $1, amount = $2, period = $3, spent = $4, remaining = $5,
			percentage_used = $6, is_active = $7, start_date = $8, end_date = $9, updated_at = NOW()
		WHERE id = $10
	`

	res, err := s.db.ExecContext(ctx, query,
		b.Category, b.Amount, b.Period, b.Spent, b.Remaining,
		b.PercentageUsed, b.IsActive, b.StartDate, b.EndDate, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating budget: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return budget.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return budget.ErrNotFound
	}

	return nil
}

func (s *Store) ListBudgets(ctx context.Context, onlyActive bool) ([]*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets`
	if onlyActive {
		query += ` WHERE is_active`
	}

	query += ` ORDER BY category ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget rows: %w", err)
	}

	return budgets, nil
}

func (s *Store) SpentForCategory(ctx context.Context, category string, start, end time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = 'expense' AND category = $1 AND date >= $2 AND date <= $3
	`

	var spent int64
	if err := s.db.QueryRowContext(ctx, query, category, start, end).Scan(&spent); err != nil {
		return 0, fmt.Errorf("summing category spend: %w", err)
	}

	return spent, nil
}

func (s *Store) CreateAlert(ctx context.Context, a *budget.Alert) error {
	query := `
		INSERT INTO budget_alerts (budget_id, level, message, is_read, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, a.BudgetID, a.Level, a.Message).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating alert: %w", err)
	}

	return nil
}

func (s *Store) ListAlerts(ctx context.Context, unreadOnly bool) ([]*budget.Alert, error) {
	query := `
		SELECT id, budget_id, level, message, is_read, acknowledged_at, created_at
		FROM budget_alerts
	`
	if unreadOnly {
		query += ` WHERE NOT is_read`
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*budget.Alert

	for rows.Next() {
		var a budget.Alert

		var levelStr string

		var ackedAt sql.NullTime

		if err := rows.Scan(&a.ID, &a.BudgetID, &levelStr, &a.Message, &a.IsRead, &ackedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}

		a.Level = budget.AlertLevel(levelStr)

		if ackedAt.Valid {
			a.AcknowledgedAt = &ackedAt.Time
		}

		alerts = append(alerts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alert rows: %w", err)
	}

	return alerts, nil
}

func (s *Store) MarkAlertRead(ctx context.Context, budgetID, alertID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budget_alerts SET is_read = TRUE WHERE id = $1 AND budget_id = $2`,
		alertID, budgetID,
	)
	if err != nil {
		return fmt.Errorf("marking alert read: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return budget.ErrNotFound
	}

	return nil
}

func (s *Store) AcknowledgeAlert(ctx context.Context, budgetID, alertID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budget_alerts SET is_read = TRUE, acknowledged_at = NOW() WHERE id = $1 AND budget_id = $2`,
		alertID, budgetID,
	)
	if err != nil {
		return fmt.Errorf("acknowledging alert: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return budget.ErrNotFound
	}

	return nil
}
