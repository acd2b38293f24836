package budget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arjunks/kharcha/internal/budget"
)

func TestClassify_ThresholdBoundaries(t *testing.T) {
	type testCase struct {
		usage float64
		want  budget.AlertLevel
	}

	tests := []testCase{
		{usage: 0, want: budget.AlertNone},
		{usage: 79.99, want: budget.AlertNone},
		{usage: 80.00, want: budget.AlertWarning},
		{usage: 99.99, want: budget.AlertWarning},
		{usage: 100.00, want: budget.AlertCritical},
		{usage: 150.00, want: budget.AlertCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, budget.Classify(tt.usage), "usage %.2f", tt.usage)
	}
}

func TestAlertMessage(t *testing.T) {
	assert.Equal(t,
		"Warning: You've used 84.0% of your monthly budget. Consider reducing expenses.",
		budget.AlertMessage(budget.AlertWarning, 84.0, 5000000))

	assert.Equal(t,
		"Budget exceeded! You've spent 104.0% of your ₹50,000 monthly budget.",
		budget.AlertMessage(budget.AlertCritical, 104.0, 5000000))

	assert.Empty(t, budget.AlertMessage(budget.AlertNone, 42.0, 5000000))
}

func TestBudget_Recompute(t *testing.T) {
	b := &budget.Budget{Amount: 1000000}

	b.Recompute(1200000)

	assert.Equal(t, int64(1200000), b.Spent)
	assert.Equal(t, int64(-200000), b.Remaining)
	assert.InDelta(t, 120.0, b.PercentageUsed, 0.0001)
}
