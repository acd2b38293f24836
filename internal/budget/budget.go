// Package budget holds category budgets, the whole-account monthly
// ceiling, and the alert classification over both.
package budget

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/summary"
)

// ErrNotFound is returned when a budget or alert does not exist.
var ErrNotFound = errors.New("budget not found")

// Period is the time window a category budget ceiling applies to.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Budget is a spending ceiling for one category and period. Spent,
// Remaining and PercentageUsed are computed server-side from the
// transaction set; Remaining may be negative and PercentageUsed may
// exceed 100.
type Budget struct {
	ID             uuid.UUID
	Category       string
	Amount         int64 // ceiling, paise
	Period         Period
	Spent          int64
	Remaining      int64
	PercentageUsed float64
	IsActive       bool
	StartDate      time.Time
	EndDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Recompute refreshes the derived fields from a new spent figure.
func (b *Budget) Recompute(spent int64) {
	b.Spent = spent
	b.Remaining = b.Amount - spent
	b.PercentageUsed = summary.UsagePercent(spent, b.Amount)
}

// Alert is a raised budget alert row. Alerts are created by a refresh
// pass when a budget crosses a threshold and cleared by the user
// reading or acknowledging them.
type Alert struct {
	ID             uuid.UUID
	BudgetID       uuid.UUID
	Level          AlertLevel
	Message        string
	IsRead         bool
	AcknowledgedAt *time.Time
	CreatedAt      time.Time
}
