package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/money"
	"github.com/arjunks/kharcha/internal/recurring"
	"github.com/arjunks/kharcha/internal/transaction"
)

func (c *Client) ListRecurring(ctx context.Context, onlyActive bool) ([]*recurring.RecurringTransaction, error) {
	path := "/api/v1/recurring"
	if onlyActive {
		path += "?active=true"
	}

	var ws []api.RecurringTransaction
	if err := c.do(ctx, http.MethodGet, path, nil, &ws); err != nil {
		return nil, err
	}

	return api.RecurringsFromWire(ws)
}

func recurringRequest(params recurring.CreateParams) api.CreateRecurringRequest {
	req := api.CreateRecurringRequest{
		Type:        string(params.Type),
		Amount:      money.Amount(params.Amount),
		Description: params.Description,
		Category:    api.Category{Name: params.Category},
		Notes:       params.Notes,
		Frequency:   string(params.Schedule.Frequency),
		DayOfWeek:   int(params.Schedule.DayOfWeek),
		DayOfMonth:  params.Schedule.DayOfMonth,
		MonthOfYear: int(params.Schedule.MonthOfYear),
		StartDate:   params.StartDate.Format(time.DateOnly),
	}
	if params.EndDate != nil {
		req.EndDate = params.EndDate.Format(time.DateOnly)
	}

	return req
}

func (c *Client) CreateRecurring(ctx context.Context, params recurring.CreateParams) (*recurring.RecurringTransaction, error) {
	var w api.RecurringTransaction
	if err := c.do(ctx, http.MethodPost, "/api/v1/recurring", recurringRequest(params), &w); err != nil {
		return nil, err
	}

	return api.RecurringFromWire(w)
}

// UpdateRecurring replaces a schedule's full definition.
func (c *Client) UpdateRecurring(ctx context.Context, id uuid.UUID, params recurring.CreateParams) (*recurring.RecurringTransaction, error) {
	var w api.RecurringTransaction
	if err := c.do(ctx, http.MethodPut, "/api/v1/recurring/"+id.String(), recurringRequest(params), &w); err != nil {
		return nil, err
	}

	return api.RecurringFromWire(w)
}

func (c *Client) DeleteRecurring(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/recurring/"+id.String(), nil, nil)
}

// ToggleRecurring pauses or resumes a schedule, returning its new
// active state.
func (c *Client) ToggleRecurring(ctx context.Context, id uuid.UUID) (bool, error) {
	var resp api.ToggleResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/recurring/"+id.String()+"/toggle", nil, &resp); err != nil {
		return false, err
	}

	return resp.IsActive, nil
}

// ProcessDueRecurring asks the server to materialize every overdue
// occurrence and returns the created transactions.
func (c *Client) ProcessDueRecurring(ctx context.Context) ([]*transaction.Transaction, error) {
	var resp api.ProcessDueResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/recurring/process_due", nil, &resp); err != nil {
		return nil, err
	}

	return api.TransactionsFromWire(resp.Created)
}

// UpcomingRecurring lists schedules due within the given number of days.
func (c *Client) UpcomingRecurring(ctx context.Context, days int) ([]api.UpcomingItem, error) {
	var items []api.UpcomingItem
	path := fmt.Sprintf("/api/v1/recurring/upcoming?days=%d", days)

	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}

	return items, nil
}
