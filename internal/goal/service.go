package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, g *SavingsGoal) error
	GetGoal(ctx context.Context, id uuid.UUID) (*SavingsGoal, error)
	UpdateGoal(ctx context.Context, g *SavingsGoal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error
	ListGoals(ctx context.Context) ([]*SavingsGoal, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name         string
	TargetAmount int64
	Deadline     *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*SavingsGoal, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("goal name is required")
	}

	if params.TargetAmount <= 0 {
		return nil, fmt.Errorf("target amount must be positive")
	}

	g := &SavingsGoal{
		Name:         params.Name,
		TargetAmount: params.TargetAmount,
		Deadline:     params.Deadline,
		Status:       StatusActive,
	}
	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*SavingsGoal, error) {
	return s.repo.GetGoal(ctx, id)
}

// UpdateParams replaces a goal's definition. An empty Status keeps the
// current one.
type UpdateParams struct {
	Name         string
	TargetAmount int64
	Deadline     *time.Time
	Status       Status
}

// Update replaces a goal's definition. The target can never drop below
// what is already saved, and reaching the target through a lowered
// target completes an active goal.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*SavingsGoal, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("goal name is required")
	}

	if params.TargetAmount <= 0 {
		return nil, fmt.Errorf("target amount must be positive")
	}

	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.TargetAmount < g.CurrentAmount {
		return nil, fmt.Errorf("target cannot be below the amount already saved")
	}

	g.Name = params.Name
	g.TargetAmount = params.TargetAmount
	g.Deadline = params.Deadline

	if params.Status != "" {
		switch params.Status {
		case StatusActive, StatusCompleted, StatusPaused:
			g.Status = params.Status
		default:
			return nil, fmt.Errorf("unknown goal status %q", params.Status)
		}
	}

	if g.IsReached() && g.Status == StatusActive {
		g.Status = StatusCompleted
	}

	g.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteGoal(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*SavingsGoal, error) {
	return s.repo.ListGoals(ctx)
}

// AddAmount increments a goal's saved amount; the delta must be
// positive, additions are the only way CurrentAmount moves. Reaching
// the target flips the goal to completed.
func (s *Service) AddAmount(ctx context.Context, id uuid.UUID, delta int64) (*SavingsGoal, error) {
	if delta <= 0 {
		return nil, fmt.Errorf("amount to add must be positive")
	}

	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	g.CurrentAmount += delta
	g.UpdatedAt = time.Now().UTC()

	if g.IsReached() && g.Status == StatusActive {
		g.Status = StatusCompleted
	}

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// GoalSummary rolls up all goals for the summary endpoint.
type GoalSummary struct {
	TotalTarget  int64
	TotalSaved   int64
	ActiveCount  int
	ReachedCount int
}

func (s *Service) Summarize(ctx context.Context) (*GoalSummary, error) {
	goals, err := s.repo.ListGoals(ctx)
	if err != nil {
		return nil, err
	}

	sum := &GoalSummary{}

	for _, g := range goals {
		sum.TotalTarget += g.TargetAmount
		sum.TotalSaved += g.CurrentAmount

		if g.Status == StatusActive {
			sum.ActiveCount++
		}

		if g.IsReached() {
			sum.ReachedCount++
		}
	}

	return sum, nil
}
