package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/budget"
	"github.com/arjunks/kharcha/internal/money"
)

// Budget is the wire form of a category budget with its derived usage
// fields.
type Budget struct {
	ID             string       `json:"id"`
	Category       Category     `json:"category"`
	Amount         money.Amount `json:"amount"`
	Period         string       `json:"period"`
	Spent          money.Amount `json:"spent"`
	Remaining      money.Amount `json:"remaining"`
	PercentageUsed float64      `json:"percentage_used"`
	IsActive       bool         `json:"is_active"`
	StartDate      string       `json:"start_date"`
	EndDate        string       `json:"end_date,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func BudgetToWire(b *budget.Budget) Budget {
	w := Budget{
		ID:             b.ID.String(),
		Category:       Category{Name: b.Category},
		Amount:         money.Amount(b.Amount),
		Period:         string(b.Period),
		Spent:          money.Amount(b.Spent),
		Remaining:      money.Amount(b.Remaining),
		PercentageUsed: b.PercentageUsed,
		IsActive:       b.IsActive,
		StartDate:      b.StartDate.Format(time.DateOnly),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.EndDate != nil {
		w.EndDate = b.EndDate.Format(time.DateOnly)
	}

	return w
}

func BudgetFromWire(w Budget) (*budget.Budget, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing budget id: %w", err)
	}

	start, err := time.Parse(time.DateOnly, w.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing budget start date: %w", err)
	}

	b := &budget.Budget{
		ID:             id,
		Category:       w.Category.Name,
		Amount:         w.Amount.Paise(),
		Period:         budget.Period(w.Period),
		Spent:          w.Spent.Paise(),
		Remaining:      w.Remaining.Paise(),
		PercentageUsed: w.PercentageUsed,
		IsActive:       w.IsActive,
		StartDate:      start,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}

	if w.EndDate != "" {
		end, err := time.Parse(time.DateOnly, w.EndDate)
		if err != nil {
			return nil, fmt.Errorf("parsing budget end date: %w", err)
		}

		b.EndDate = &end
	}

	return b, nil
}

func BudgetsFromWire(ws []Budget) ([]*budget.Budget, error) {
	bs := make([]*budget.Budget, 0, len(ws))

	for _, w := range ws {
		b, err := BudgetFromWire(w)
		if err != nil {
			return nil, err
		}

		bs = append(bs, b)
	}

	return bs, nil
}

func BudgetsToWire(bs []*budget.Budget) []Budget {
	ws := make([]Budget, 0, len(bs))
	for _, b := range bs {
		ws = append(ws, BudgetToWire(b))
	}

	return ws
}

// CreateBudgetRequest is the create payload for a budget.
type CreateBudgetRequest struct {
	Category  Category     `json:"category"`
	Amount    money.Amount `json:"amount"`
	Period    string       `json:"period"`
	StartDate string       `json:"start_date,omitempty"`
	EndDate   string       `json:"end_date,omitempty"`
}

// UpdateBudgetRequest replaces a budget's full definition, so it shares
// the create shape.
type UpdateBudgetRequest = CreateBudgetRequest

// BudgetSummary rolls up all active budgets.
type BudgetSummary struct {
	TotalBudget    money.Amount `json:"total_budget"`
	TotalSpent     money.Amount `json:"total_spent"`
	TotalRemaining money.Amount `json:"total_remaining"`
	OverBudget     int          `json:"over_budget"`
	Budgets        []Budget     `json:"budgets"`
}

func BudgetSummaryToWire(s *budget.Summary) BudgetSummary {
	return BudgetSummary{
		TotalBudget:    money.Amount(s.TotalBudget),
		TotalSpent:     money.Amount(s.TotalSpent),
		TotalRemaining: money.Amount(s.TotalRemaining),
		OverBudget:     s.OverBudget,
		Budgets:        BudgetsToWire(s.Budgets),
	}
}

// Alert is the wire form of a raised budget alert.
type Alert struct {
	ID             string     `json:"id"`
	BudgetID       string     `json:"budget_id"`
	Level          string     `json:"level"`
	Message        string     `json:"message"`
	IsRead         bool       `json:"is_read"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func AlertToWire(a *budget.Alert) Alert {
	return Alert{
		ID:             a.ID.String(),
		BudgetID:       a.BudgetID.String(),
		Level:          string(a.Level),
		Message:        a.Message,
		IsRead:         a.IsRead,
		AcknowledgedAt: a.AcknowledgedAt,
		CreatedAt:      a.CreatedAt,
	}
}

func AlertFromWire(w Alert) (*budget.Alert, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing alert id: %w", err)
	}

	budgetID, err := uuid.Parse(w.BudgetID)
	if err != nil {
		return nil, fmt.Errorf("parsing alert budget id: %w", err)
	}

	return &budget.Alert{
		ID:             id,
		BudgetID:       budgetID,
		Level:          budget.AlertLevel(w.Level),
		Message:        w.Message,
		IsRead:         w.IsRead,
		AcknowledgedAt: w.AcknowledgedAt,
		CreatedAt:      w.CreatedAt,
	}, nil
}

func AlertsToWire(alerts []*budget.Alert) []Alert {
	ws := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		ws = append(ws, AlertToWire(a))
	}

	return ws
}

func AlertsFromWire(ws []Alert) ([]*budget.Alert, error) {
	alerts := make([]*budget.Alert, 0, len(ws))

	for _, w := range ws {
		a, err := AlertFromWire(w)
		if err != nil {
			return nil, err
		}

		alerts = append(alerts, a)
	}

	return alerts, nil
}
