package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/goal"
	"github.com/arjunks/kharcha/internal/money"
)

// SavingsGoal is the wire form of a savings goal. The derived fields
// are computed at encode time so clients never re-derive them.
type SavingsGoal struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	TargetAmount       money.Amount `json:"target_amount"`
	CurrentAmount      money.Amount `json:"current_amount"`
	RemainingAmount    money.Amount `json:"remaining_amount"`
	ProgressPercentage float64      `json:"progress_percentage"`
	IsReached          bool         `json:"is_reached"`
	IsOverdue          bool         `json:"is_overdue"`
	Deadline           string       `json:"deadline,omitempty"`
	Status             string       `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func GoalToWire(g *goal.SavingsGoal, now time.Time) SavingsGoal {
	w := SavingsGoal{
		ID:                 g.ID.String(),
		Name:               g.Name,
		TargetAmount:       money.Amount(g.TargetAmount),
		CurrentAmount:      money.Amount(g.CurrentAmount),
		RemainingAmount:    money.Amount(g.RemainingAmount()),
		ProgressPercentage: g.ProgressPercentage(),
		IsReached:          g.IsReached(),
		IsOverdue:          g.IsOverdue(now),
		Status:             string(g.Status),
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
	if g.Deadline != nil {
		w.Deadline = g.Deadline.Format(time.DateOnly)
	}

	return w
}

func GoalFromWire(w SavingsGoal) (*goal.SavingsGoal, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing goal id: %w", err)
	}

	g := &goal.SavingsGoal{
		ID:            id,
		Name:          w.Name,
		TargetAmount:  w.TargetAmount.Paise(),
		CurrentAmount: w.CurrentAmount.Paise(),
		Status:        goal.Status(w.Status),
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}

	if w.Deadline != "" {
		deadline, err := time.Parse(time.DateOnly, w.Deadline)
		if err != nil {
			return nil, fmt.Errorf("parsing goal deadline: %w", err)
		}

		g.Deadline = &deadline
	}

	return g, nil
}

func GoalsFromWire(ws []SavingsGoal) ([]*goal.SavingsGoal, error) {
	gs := make([]*goal.SavingsGoal, 0, len(ws))

	for _, w := range ws {
		g, err := GoalFromWire(w)
		if err != nil {
			return nil, err
		}

		gs = append(gs, g)
	}

	return gs, nil
}

func GoalsToWire(gs []*goal.SavingsGoal, now time.Time) []SavingsGoal {
	ws := make([]SavingsGoal, 0, len(gs))
	for _, g := range gs {
		ws = append(ws, GoalToWire(g, now))
	}

	return ws
}

// CreateGoalRequest is the create payload for a goal.
type CreateGoalRequest struct {
	Name         string       `json:"name"`
	TargetAmount money.Amount `json:"target_amount"`
	Deadline     string       `json:"deadline,omitempty"`
}

// UpdateGoalRequest replaces a goal's definition. An empty status keeps
// the current one.
type UpdateGoalRequest struct {
	Name         string       `json:"name"`
	TargetAmount money.Amount `json:"target_amount"`
	Deadline     string       `json:"deadline,omitempty"`
	Status       string       `json:"status,omitempty"`
}

// AddAmountRequest adds to a goal's saved amount.
type AddAmountRequest struct {
	Amount money.Amount `json:"amount"`
}

// GoalSummary rolls up all goals.
type GoalSummary struct {
	TotalTarget  money.Amount `json:"total_target"`
	TotalSaved   money.Amount `json:"total_saved"`
	ActiveCount  int          `json:"active_count"`
	ReachedCount int          `json:"reached_count"`
}

func GoalSummaryToWire(s *goal.GoalSummary) GoalSummary {
	return GoalSummary{
		TotalTarget:  money.Amount(s.TotalTarget),
		TotalSaved:   money.Amount(s.TotalSaved),
		ActiveCount:  s.ActiveCount,
		ReachedCount: s.ReachedCount,
	}
}
