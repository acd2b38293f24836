package apiclient

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/budget"
	"github.com/arjunks/kharcha/internal/money"
)

func (c *Client) ListBudgets(ctx context.Context, onlyActive bool) ([]*budget.Budget, error) {
	path := "/api/v1/budgets"
	if onlyActive {
		path += "?active=true"
	}

	var ws []api.Budget
	if err := c.do(ctx, http.MethodGet, path, nil, &ws); err != nil {
		return nil, err
	}

	return api.BudgetsFromWire(ws)
}

func budgetRequest(params budget.CreateParams) api.CreateBudgetRequest {
	req := api.CreateBudgetRequest{
		Category: api.Category{Name: params.Category},
		Amount:   money.Amount(params.Amount),
		Period:   string(params.Period),
	}

	if params.StartDate != nil {
		req.StartDate = params.StartDate.Format(time.DateOnly)
	}

	if params.EndDate != nil {
		req.EndDate = params.EndDate.Format(time.DateOnly)
	}

	return req
}

func (c *Client) CreateBudget(ctx context.Context, params budget.CreateParams) (*budget.Budget, error) {
	var w api.Budget
	if err := c.do(ctx, http.MethodPost, "/api/v1/budgets", budgetRequest(params), &w); err != nil {
		return nil, err
	}

	return api.BudgetFromWire(w)
}

// UpdateBudget replaces a budget's full definition.
func (c *Client) UpdateBudget(ctx context.Context, id uuid.UUID, params budget.CreateParams) (*budget.Budget, error) {
	var w api.Budget
	if err := c.do(ctx, http.MethodPut, "/api/v1/budgets/"+id.String(), budgetRequest(params), &w); err != nil {
		return nil, err
	}

	return api.BudgetFromWire(w)
}

func (c *Client) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/budgets/"+id.String(), nil, nil)
}

func (c *Client) BudgetSummary(ctx context.Context) (*api.BudgetSummary, error) {
	var w api.BudgetSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/budgets/summary", nil, &w); err != nil {
		return nil, err
	}

	return &w, nil
}

// RefreshBudgets recomputes every budget's usage server-side and
// returns the refreshed rows.
func (c *Client) RefreshBudgets(ctx context.Context) ([]*budget.Budget, error) {
	var ws []api.Budget
	if err := c.do(ctx, http.MethodPost, "/api/v1/budgets/refresh", nil, &ws); err != nil {
		return nil, err
	}

	return api.BudgetsFromWire(ws)
}

func (c *Client) BudgetAlerts(ctx context.Context, unreadOnly bool) ([]*budget.Alert, error) {
	path := "/api/v1/budgets/alerts"
	if unreadOnly {
		path += "?unread=true"
	}

	var ws []api.Alert
	if err := c.do(ctx, http.MethodGet, path, nil, &ws); err != nil {
		return nil, err
	}

	return api.AlertsFromWire(ws)
}

func (c *Client) MarkAlertRead(ctx context.Context, budgetID, alertID uuid.UUID) error {
	path := "/api/v1/budgets/" + budgetID.String() + "/alerts/" + alertID.String() + "/read"
	return c.do(ctx, http.MethodPatch, path, nil, nil)
}

func (c *Client) AcknowledgeAlert(ctx context.Context, budgetID, alertID uuid.UUID) error {
	path := "/api/v1/budgets/" + budgetID.String() + "/alerts/" + alertID.String() + "/acknowledge"
	return c.do(ctx, http.MethodPatch, path, nil, nil)
}
