package apiclient

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/goal"
	"github.com/arjunks/kharcha/internal/money"
)

func (c *Client) ListGoals(ctx context.Context) ([]*goal.SavingsGoal, error) {
	var ws []api.SavingsGoal
	if err := c.do(ctx, http.MethodGet, "/api/v1/goals", nil, &ws); err != nil {
		return nil, err
	}

	return api.GoalsFromWire(ws)
}

func (c *Client) CreateGoal(ctx context.Context, params goal.CreateParams) (*goal.SavingsGoal, error) {
	req := api.CreateGoalRequest{
		Name:         params.Name,
		TargetAmount: money.Amount(params.TargetAmount),
	}
	if params.Deadline != nil {
		req.Deadline = params.Deadline.Format(time.DateOnly)
	}

	var w api.SavingsGoal
	if err := c.do(ctx, http.MethodPost, "/api/v1/goals", req, &w); err != nil {
		return nil, err
	}

	return api.GoalFromWire(w)
}

// UpdateGoal replaces a goal's definition.
func (c *Client) UpdateGoal(ctx context.Context, id uuid.UUID, params goal.UpdateParams) (*goal.SavingsGoal, error) {
	req := api.UpdateGoalRequest{
		Name:         params.Name,
		TargetAmount: money.Amount(params.TargetAmount),
		Status:       string(params.Status),
	}
	if params.Deadline != nil {
		req.Deadline = params.Deadline.Format(time.DateOnly)
	}

	var w api.SavingsGoal
	if err := c.do(ctx, http.MethodPut, "/api/v1/goals/"+id.String(), req, &w); err != nil {
		return nil, err
	}

	return api.GoalFromWire(w)
}

func (c *Client) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/goals/"+id.String(), nil, nil)
}

// AddToGoal adds a positive delta to a goal's saved amount and returns
// the updated goal.
func (c *Client) AddToGoal(ctx context.Context, id uuid.UUID, delta int64) (*goal.SavingsGoal, error) {
	req := api.AddAmountRequest{Amount: money.Amount(delta)}

	var w api.SavingsGoal
	if err := c.do(ctx, http.MethodPatch, "/api/v1/goals/"+id.String()+"/add_amount", req, &w); err != nil {
		return nil, err
	}

	return api.GoalFromWire(w)
}

func (c *Client) GoalSummary(ctx context.Context) (*api.GoalSummary, error) {
	var w api.GoalSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/goals/summary", nil, &w); err != nil {
		return nil, err
	}

	return &w, nil
}
