// Package summary derives view-ready figures from period aggregates.
// Everything here is pure; callers feed it fetched or locally tracked
// totals and render the result.
package summary

// PeriodSummary holds income/expense totals for a date range, in paise.
type PeriodSummary struct {
	TotalIncome      int64
	TotalExpenses    int64
	Balance          int64
	TransactionCount int
}

// DerivedView is a PeriodSummary combined with the monthly ceiling and
// compared against the previous period.
type DerivedView struct {
	Current PeriodSummary

	RemainingBudget int64 // ceiling - expenses, negative when over
	OverBudget      bool
	UsagePercent    float64

	BalanceChange float64
	IncomeChange  float64
	ExpenseChange float64
}

// PercentChange compares a metric against its own previous value.
// A zero previous value yields 100 when anything appeared, else 0.
func PercentChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}

		return 0
	}

	return float64(current-previous) / float64(previous) * 100
}

// UsagePercent is expenses over ceiling as a percentage. A non-positive
// ceiling yields 0 rather than a division blowup.
func UsagePercent(totalExpenses, ceiling int64) float64 {
	if ceiling <= 0 {
		return 0
	}

	return float64(totalExpenses) / float64(ceiling) * 100
}

// Aggregate combines the current and previous period summaries with the
// monthly ceiling. Each change figure uses its own metric's previous
// value as the denominator.
func Aggregate(current, previous PeriodSummary, ceiling int64) DerivedView {
	remaining := ceiling - current.TotalExpenses

	return DerivedView{
		Current:         current,
		RemainingBudget: remaining,
		OverBudget:      remaining < 0,
		UsagePercent:    UsagePercent(current.TotalExpenses, ceiling),
		BalanceChange:   PercentChange(current.Balance, previous.Balance),
		IncomeChange:    PercentChange(current.TotalIncome, previous.TotalIncome),
		ExpenseChange:   PercentChange(current.TotalExpenses, previous.TotalExpenses),
	}
}
