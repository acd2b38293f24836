package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/money"
	"github.com/arjunks/kharcha/internal/summary"
	"github.com/arjunks/kharcha/internal/transaction"
)

// Transaction is the wire form of a transaction.
type Transaction struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	Category    Category     `json:"category"`
	Date        string       `json:"date"`
	Notes       string       `json:"notes,omitempty"`
	IsRecurring bool         `json:"is_recurring"`
	RecurringID string       `json:"recurring_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func TransactionToWire(tx *transaction.Transaction) Transaction {
	w := Transaction{
		ID:          tx.ID.String(),
		Type:        string(tx.Type),
		Amount:      money.Amount(tx.Amount),
		Description: tx.Description,
		Category:    Category{Name: tx.Category},
		Date:        tx.Date.Format(time.DateOnly),
		Notes:       tx.Notes,
		IsRecurring: tx.IsRecurring,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
	if tx.RecurringID != nil {
		w.RecurringID = tx.RecurringID.String()
	}

	return w
}

func TransactionFromWire(w Transaction) (*transaction.Transaction, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing transaction id: %w", err)
	}

	date, err := time.Parse(time.DateOnly, w.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing transaction date: %w", err)
	}

	tx := &transaction.Transaction{
		ID:          id,
		Type:        transaction.Type(w.Type),
		Amount:      w.Amount.Paise(),
		Description: w.Description,
		Category:    w.Category.Name,
		Date:        date,
		Notes:       w.Notes,
		IsRecurring: w.IsRecurring,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}

	if w.RecurringID != "" {
		rid, err := uuid.Parse(w.RecurringID)
		if err != nil {
			return nil, fmt.Errorf("parsing recurring id: %w", err)
		}

		tx.RecurringID = &rid
	}

	return tx, nil
}

func TransactionsFromWire(ws []Transaction) ([]*transaction.Transaction, error) {
	txs := make([]*transaction.Transaction, 0, len(ws))

	for _, w := range ws {
		tx, err := TransactionFromWire(w)
		if err != nil {
			return nil, err
		}

		txs = append(txs, tx)
	}

	return txs, nil
}

func TransactionsToWire(txs []*transaction.Transaction) []Transaction {
	ws := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		ws = append(ws, TransactionToWire(tx))
	}

	return ws
}

// CreateTransactionRequest is the create payload.
type CreateTransactionRequest struct {
	Type        string       `json:"type"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	Category    Category     `json:"category"`
	Date        string       `json:"date"`
	Notes       string       `json:"notes,omitempty"`
}

// UpdateTransactionRequest is the partial-edit payload; absent fields
// are left untouched.
type UpdateTransactionRequest struct {
	Type        *string       `json:"type,omitempty"`
	Amount      *money.Amount `json:"amount,omitempty"`
	Description *string       `json:"description,omitempty"`
	Category    *Category     `json:"category,omitempty"`
	Date        *string       `json:"date,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
}

// BulkDeleteRequest names the transactions to delete in one call.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDeleteResponse reports how many rows went away.
type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// PeriodSummary is the wire form of a period summary.
type PeriodSummary struct {
	TotalIncome      money.Amount `json:"total_income"`
	TotalExpenses    money.Amount `json:"total_expenses"`
	Balance          money.Amount `json:"balance"`
	TransactionCount int          `json:"transaction_count"`
}

func PeriodSummaryToWire(s summary.PeriodSummary) PeriodSummary {
	return PeriodSummary{
		TotalIncome:      money.Amount(s.TotalIncome),
		TotalExpenses:    money.Amount(s.TotalExpenses),
		Balance:          money.Amount(s.Balance),
		TransactionCount: s.TransactionCount,
	}
}

func PeriodSummaryFromWire(w PeriodSummary) summary.PeriodSummary {
	return summary.PeriodSummary{
		TotalIncome:      w.TotalIncome.Paise(),
		TotalExpenses:    w.TotalExpenses.Paise(),
		Balance:          w.Balance.Paise(),
		TransactionCount: w.TransactionCount,
	}
}
