package budget_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunks/kharcha/internal/budget"
	"github.com/arjunks/kharcha/internal/events"
	"github.com/arjunks/kharcha/internal/summary"
)

const ceiling = 5000000 // ₹50,000 in paise

// Scripted version of the warning-to-critical scenario: a summary
// refresh lands at 84% usage, then one more expense pushes past 100%.
func TestMonthlyTracker_AlertEscalation(t *testing.T) {
	bus := events.NewBus()
	tracker := budget.NewMonthlyTracker(ceiling, bus)

	var levels []budget.AlertLevel

	tracker.SetAlertListener(func(level budget.AlertLevel, _ string) {
		levels = append(levels, level)
	})

	tracker.ApplySummary(summary.PeriodSummary{TotalExpenses: 4200000})

	snap := tracker.Snapshot()
	assert.InDelta(t, 84.0, snap.UsagePercentage, 0.0001)
	assert.Equal(t, budget.AlertWarning, snap.AlertLevel)
	assert.Equal(t,
		"Warning: You've used 84.0% of your monthly budget. Consider reducing expenses.",
		snap.AlertMessage)

	bus.Publish(events.Mutation{
		Kind:  events.KindCreated,
		After: &events.MutationRecord{ID: "t1", Type: "expense", Amount: 1000000},
	})

	snap = tracker.Snapshot()
	assert.InDelta(t, 104.0, snap.UsagePercentage, 0.0001)
	assert.Equal(t, budget.AlertCritical, snap.AlertLevel)
	assert.Equal(t,
		"Budget exceeded! You've spent 104.0% of your ₹50,000 monthly budget.",
		snap.AlertMessage)

	assert.Equal(t, []budget.AlertLevel{budget.AlertWarning, budget.AlertCritical}, levels)
}

func TestMonthlyTracker_MutationDeltas(t *testing.T) {
	bus := events.NewBus()
	tracker := budget.NewMonthlyTracker(ceiling, bus)

	bus.Publish(events.Mutation{
		Kind:  events.KindCreated,
		After: &events.MutationRecord{ID: "t1", Type: "income", Amount: 300000},
	})
	bus.Publish(events.Mutation{
		Kind:  events.KindCreated,
		After: &events.MutationRecord{ID: "t2", Type: "expense", Amount: 120000},
	})
	bus.Publish(events.Mutation{
		Kind:   events.KindUpdated,
		Before: &events.MutationRecord{ID: "t2", Type: "expense", Amount: 120000},
		After:  &events.MutationRecord{ID: "t2", Type: "expense", Amount: 80000},
	})
	bus.Publish(events.Mutation{
		Kind:   events.KindDeleted,
		Before: &events.MutationRecord{ID: "t1", Type: "income", Amount: 300000},
	})

	snap := tracker.Snapshot()
	assert.Equal(t, int64(0), snap.TotalIncome)
	assert.Equal(t, int64(80000), snap.TotalExpense)
	assert.Equal(t, int64(ceiling-80000), snap.RemainingBudget)
}

// Recomputation is idempotent: the same inputs always produce the same
// derived fields, and repeated identical recomputes are not suppressed.
func TestMonthlyTracker_RecomputeIdempotent(t *testing.T) {
	tracker := budget.NewMonthlyTracker(ceiling, nil)

	var calls int

	tracker.SetAlertListener(func(budget.AlertLevel, string) { calls++ })

	tracker.ApplySummary(summary.PeriodSummary{TotalExpenses: 4200000})
	first := tracker.Snapshot()

	tracker.ApplySummary(summary.PeriodSummary{TotalExpenses: 4200000})
	second := tracker.Snapshot()

	assert.Equal(t, first.UsagePercentage, second.UsagePercentage)
	assert.Equal(t, first.AlertLevel, second.AlertLevel)
	assert.Equal(t, first.AlertMessage, second.AlertMessage)
	assert.Equal(t, 2, calls)
}

func TestMonthlyTracker_DismissClearsMessageOnly(t *testing.T) {
	tracker := budget.NewMonthlyTracker(ceiling, nil)
	tracker.ApplySummary(summary.PeriodSummary{TotalExpenses: 4500000})

	require.Equal(t, budget.AlertWarning, tracker.Snapshot().AlertLevel)

	tracker.DismissAlert()

	snap := tracker.Snapshot()
	assert.Empty(t, snap.AlertMessage)
	assert.Equal(t, budget.AlertWarning, snap.AlertLevel)
	assert.Equal(t, int64(4500000), snap.TotalExpense)

	// Any recompute restores the message.
	tracker.SetCeiling(ceiling)
	assert.NotEmpty(t, tracker.Snapshot().AlertMessage)
}

func TestMonthlyTracker_MonthRolloverResetsTotalsKeepsCeiling(t *testing.T) {
	tracker := budget.NewMonthlyTracker(ceiling, nil)

	march := time.Date(2024, 3, 28, 12, 0, 0, 0, time.UTC)
	tracker.SetClock(func() time.Time { return march })
	tracker.ApplySummary(summary.PeriodSummary{TotalIncome: 6000000, TotalExpenses: 4200000})

	require.Equal(t, "2024-03", tracker.Snapshot().Month)

	april := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	tracker.SetClock(func() time.Time { return april })

	tracker.ApplySummary(summary.PeriodSummary{TotalExpenses: 100000})

	snap := tracker.Snapshot()
	assert.Equal(t, "2024-04", snap.Month)
	assert.Equal(t, int64(ceiling), snap.Amount)
	assert.Equal(t, int64(100000), snap.TotalExpense)
	assert.Equal(t, int64(0), snap.TotalIncome)
	assert.Equal(t, budget.AlertNone, snap.AlertLevel)
}

// A listener may read back from the tracker; the notification fires
// after the internal lock is released.
func TestMonthlyTracker_ListenerMayReenterTracker(t *testing.T) {
	tracker := budget.NewMonthlyTracker(ceiling, nil)

	var fromSnapshot []budget.AlertLevel

	tracker.SetAlertListener(func(level budget.AlertLevel, _ string) {
		snap := tracker.Snapshot()
		require.Equal(t, level, snap.AlertLevel)
		fromSnapshot = append(fromSnapshot, snap.AlertLevel)
	})

	tracker.ApplySummary(summary.PeriodSummary{TotalExpenses: 4200000})
	tracker.SetCeiling(4000000)

	assert.Equal(t, []budget.AlertLevel{budget.AlertWarning, budget.AlertCritical}, fromSnapshot)
}

func TestMonthlyTracker_ZeroCeiling(t *testing.T) {
	tracker := budget.NewMonthlyTracker(0, nil)
	tracker.ApplySummary(summary.PeriodSummary{TotalExpenses: 123456})

	snap := tracker.Snapshot()
	assert.Equal(t, 0.0, snap.UsagePercentage)
	assert.Equal(t, budget.AlertNone, snap.AlertLevel)
}
