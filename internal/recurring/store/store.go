package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/recurring"
	"github.com/arjunks/kharcha/internal/transaction"
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

const selectRecurringColumns = `
	id, type, amount, description, category, notes,
	frequency, day_of_week, day_of_month, month_of_year,
	start_date, end_date, last_processed, next_occurrence, is_active,
	created_at, updated_at
`

func scanRecurring(s scanner) (*recurring.RecurringTransaction, error) {
	var r recurring.RecurringTransaction

	var typeStr, freqStr string

	var notes sql.NullString

	var dayOfWeek, dayOfMonth, monthOfYear sql.NullInt64

	var endDate, lastProcessed, nextOccurrence sql.NullTime

	if err := s.Scan(
		&r.ID, &typeStr, &r.Amount, &r.Description, &r.Category, &notes,
		&freqStr, &dayOfWeek, &dayOfMonth, &monthOfYear,
		&r.StartDate, &endDate, &lastProcessed, &nextOccurrence, &r.IsActive,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.Type = transaction.Type(typeStr)
	r.Notes = notes.String
	r.Schedule = recurring.Schedule{
		Frequency:   recurring.Frequency(freqStr),
		DayOfWeek:   time.Weekday(dayOfWeek.Int64),
		DayOfMonth:  int(dayOfMonth.Int64),
		MonthOfYear: time.Month(monthOfYear.Int64),
	}

	if endDate.Valid {
		r.EndDate = &endDate.Time
	}

	if lastProcessed.Valid {
		r.LastProcessed = &lastProcessed.Time
	}

	if nextOccurrence.Valid {
		r.NextOccurrence = nextOccurrence.Time
	}

	return &r, nil
}

func (s *Store) CreateRecurring(ctx context.Context, r *recurring.RecurringTransaction) error {
	query := `
		INSERT INTO recurring_transactions
			(type, amount, description, category, notes,
			 frequency, day_of_week, day_of_month, month_of_year,
			 start_date, end_date, last_processed, next_occurrence, is_active,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.Type, r.Amount, r.Description, r.Category, nullString(r.Notes),
		r.Schedule.Frequency, int(r.Schedule.DayOfWeek), r.Schedule.DayOfMonth, int(r.Schedule.MonthOfYear),
		r.StartDate, r.EndDate, r.LastProcessed, nullTime(r.NextOccurrence), r.IsActive,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating recurring transaction: %w", err)
	}

	return nil
}

func (s *Store) GetRecurring(ctx context.Context, id uuid.UUID) (*recurring.RecurringTransaction, error) {
	query := `SELECT ` + selectRecurringColumns + ` FROM recurring_transactions WHERE id = $1`

	r, err := scanRecurring(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, recurring.ErrNotFound
		}

		return nil, fmt.Errorf("getting recurring transaction: %w", err)
	}

	return r, nil
}

func (s *Store) UpdateRecurring(ctx context.Context, r *recurring.RecurringTransaction) error {
	query := `
		UPDATE recurring_transactions
		SET type = $1, amount = $2, description = $3, category = $4, notes = $5,
			frequency = $6, day_of_week = $7, day_of_month = $8, month_of_year = $9,
			start_date = $10, end_date = $11, last_processed = $12, next_occurrence = $13,
			is_active = $14, updated_at = NOW()
		WHERE id = $15
	`

	res, err := s.db.ExecContext(ctx, query,
		r.Type, r.Amount, r.Description, r.Category, nullString(r.Notes),
		r.Schedule.Frequency, int(r.Schedule.DayOfWeek), r.Schedule.DayOfMonth, int(r.Schedule.MonthOfYear),
		r.StartDate, r.EndDate, r.LastProcessed, nullTime(r.NextOccurrence),
		r.IsActive, r.ID,
	)
	if err != nil {
		return fmt.Errorf("updating recurring transaction: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return recurring.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteRecurring(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting recurring transaction: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return recurring.ErrNotFound
	}

	return nil
}

func (s *Store) ListRecurring(ctx context.Context, onlyActive bool) ([]*recurring.RecurringTransaction, error) {
	query := `SELECT ` + selectRecurringColumns + ` FROM recurring_transactions`
	if onlyActive {
		query += ` WHERE is_active`
	}

	query += ` ORDER BY next_occurrence ASC NULLS LAST`

	return s.queryMany(ctx, query)
}

func (s *Store) ListDue(ctx context.Context, asOf time.Time) ([]*recurring.RecurringTransaction, error) {
	query := `SELECT ` + selectRecurringColumns + `
		FROM recurring_transactions
		WHERE is_active AND next_occurrence IS NOT NULL AND next_occurrence <= $1
		ORDER BY next_occurrence ASC`

	return s.queryMany(ctx, query, asOf)
}

func (s *Store) queryMany(ctx context.Context, query string, args ...any) ([]*recurring.RecurringTransaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recurring transactions: %w", err)
	}
	defer rows.Close()

	var rts []*recurring.RecurringTransaction

	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring transaction: %w", err)
		}

		rts = append(rts, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recurring rows: %w", err)
	}

	return rts, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
