package view

import (
	"time"

	"github.com/arjunks/kharcha/internal/money"
	"github.com/arjunks/kharcha/internal/transaction"
)

// FormatAmount renders paise as a signed rupee string, expenses
// negative.
func FormatAmount(tx *transaction.Transaction) string {
	amount := tx.Amount
	if tx.Type == transaction.TypeExpense {
		amount = -amount
	}

	return money.FormatINR(amount, true)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
