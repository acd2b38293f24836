package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/money"
	"github.com/arjunks/kharcha/internal/summary"
	"github.com/arjunks/kharcha/internal/transaction"
)

// TransactionFilter narrows ListTransactions; zero fields are omitted.
type TransactionFilter struct {
	Type      string
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

func (f TransactionFilter) query() string {
	q := url.Values{}

	if f.Type != "" {
		q.Set("type", f.Type)
	}

	if f.Category != "" {
		q.Set("category", f.Category)
	}

	if f.StartDate != nil {
		q.Set("start_date", f.StartDate.Format(time.DateOnly))
	}

	if f.EndDate != nil {
		q.Set("end_date", f.EndDate.Format(time.DateOnly))
	}

	if len(q) == 0 {
		return ""
	}

	return "?" + q.Encode()
}

func (c *Client) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*transaction.Transaction, error) {
	var ws []api.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions"+filter.query(), nil, &ws); err != nil {
		return nil, err
	}

	return api.TransactionsFromWire(ws)
}

func (c *Client) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var w api.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions/"+id.String(), nil, &w); err != nil {
		return nil, err
	}

	return api.TransactionFromWire(w)
}

func (c *Client) CreateTransaction(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	req := api.CreateTransactionRequest{
		Type:        string(params.Type),
		Amount:      money.Amount(params.Amount),
		Description: params.Description,
		Category:    api.Category{Name: params.Category},
		Date:        params.Date.Format(time.DateOnly),
		Notes:       params.Notes,
	}

	var w api.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions", req, &w); err != nil {
		return nil, err
	}

	return api.TransactionFromWire(w)
}

func (c *Client) UpdateTransaction(ctx context.Context, id uuid.UUID, params transaction.UpdateParams) (*transaction.Transaction, error) {
	req := api.UpdateTransactionRequest{
		Description: params.Description,
		Notes:       params.Notes,
	}

	if params.Type != nil {
		req.Type = new(string(*params.Type))
	}

	if params.Amount != nil {
		req.Amount = new(money.Amount(*params.Amount))
	}

	if params.Category != nil {
		req.Category = &api.Category{Name: *params.Category}
	}

	if params.Date != nil {
		req.Date = new(params.Date.Format(time.DateOnly))
	}

	var w api.Transaction
	if err := c.do(ctx, http.MethodPut, "/api/v1/transactions/"+id.String(), req, &w); err != nil {
		return nil, err
	}

	return api.TransactionFromWire(w)
}

func (c *Client) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/transactions/"+id.String(), nil, nil)
}

func (c *Client) BulkDeleteTransactions(ctx context.Context, ids []uuid.UUID) (int, error) {
	req := api.BulkDeleteRequest{IDs: make([]string, len(ids))}
	for i, id := range ids {
		req.IDs[i] = id.String()
	}

	var resp api.BulkDeleteResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions/bulk_delete", req, &resp); err != nil {
		return 0, err
	}

	return resp.Deleted, nil
}

func (c *Client) Summary(ctx context.Context, start, end time.Time) (summary.PeriodSummary, error) {
	path := fmt.Sprintf("/api/v1/transactions/summary?start_date=%s&end_date=%s",
		start.Format(time.DateOnly), end.Format(time.DateOnly))

	var w api.PeriodSummary
	if err := c.do(ctx, http.MethodGet, path, nil, &w); err != nil {
		return summary.PeriodSummary{}, err
	}

	return api.PeriodSummaryFromWire(w), nil
}
