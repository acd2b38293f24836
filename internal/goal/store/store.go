package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/goal"
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

const selectGoalColumns = `
	id, name, target_amount, current_amount, deadline, status, created_at, updated_at
`

func scanGoal(s scanner) (*goal.SavingsGoal, error) {
	var g goal.SavingsGoal

	var statusStr string

	var deadline sql.NullTime

	if err := s.Scan(
		&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline, &statusStr,
		&g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}

	g.Status = goal.Status(statusStr)

	if deadline.Valid {
		g.Deadline = &deadline.Time
	}

	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (name, target_amount, current_amount, deadline, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Status,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating savings goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, id uuid.UUID) (*goal.SavingsGoal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM savings_goals WHERE id = $1`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting savings goal: %w", err)
	}

	return g, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *goal.SavingsGoal) error {
	query := `
		UPDATE savings_goals
		SET name = $1, target_amount = $2, current_amount = $3, deadline = $4, status = $5, updated_at = NOW()
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Status, g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating savings goal: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return goal.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting savings goal: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return goal.ErrNotFound
	}

	return nil
}

func (s *Store) ListGoals(ctx context.Context) ([]*goal.SavingsGoal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM savings_goals ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing savings goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.SavingsGoal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning savings goal: %w", err)
		}

		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goal rows: %w", err)
	}

	return goals, nil
}
