package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/summary"
	"github.com/arjunks/kharcha/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	id, type, amount, description, category, date, notes,
	is_recurring, recurring_id, created_at, updated_at
`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var notes sql.NullString

	var recurringID *uuid.UUID

	if err := s.Scan(
		&tx.ID, &typeStr, &tx.Amount, &tx.Description, &tx.Category, &tx.Date, &notes,
		&tx.IsRecurring, &recurringID, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Notes = notes.String
	tx.RecurringID = recurringID

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (type, amount, description, category, date, notes, is_recurring, recurring_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Type,
		tx.Amount,
		tx.Description,
		tx.Category,
		tx.Date,
		nullString(tx.Notes),
		tx.IsRecurring,
		tx.RecurringID,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.RecurringID != nil {
		query += fmt.Sprintf(" AND recurring_id = $%d", argIdx)

		args = append(args, *filter.RecurringID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, description = $3, category = $4, date = $5, notes = $6, updated_at = NOW()
		WHERE id = $7
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Type,
		tx.Amount,
		tx.Description,
		tx.Category,
		tx.Date,
		nullString(tx.Notes),
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTransactions(ctx context.Context, ids []uuid.UUID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ANY($1)`, pgUUIDArray(ids))
	if err != nil {
		return 0, fmt.Errorf("deleting transactions: %w", err)
	}

	n, _ := res.RowsAffected()

	return int(n), nil
}

func (s *Store) SummarizeTransactions(ctx context.Context, start, end time.Time) (summary.PeriodSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
			COUNT(*)
		FROM transactions
		WHERE date >= $1 AND date <= $2
	`

	var sum summary.PeriodSummary
	if err := s.db.QueryRowContext(ctx, query, start, end).Scan(
		&sum.TotalIncome, &sum.TotalExpenses, &sum.TransactionCount,
	); err != nil {
		return summary.PeriodSummary{}, fmt.Errorf("summarizing transactions: %w", err)
	}

	sum.Balance = sum.TotalIncome - sum.TotalExpenses

	return sum, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// pgUUIDArray renders ids as a Postgres uuid[] literal for ANY().
func pgUUIDArray(ids []uuid.UUID) string {
	arr := "{"
	for i, id := range ids {
		if i > 0 {
			arr += ","
		}

		arr += id.String()
	}

	return arr + "}"
}
