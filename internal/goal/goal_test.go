package goal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arjunks/kharcha/internal/goal"
)

func TestProgress(t *testing.T) {
	assert.InDelta(t, 40.0, goal.Progress(4000000, 10000000), 0.0001)
	assert.InDelta(t, 100.0, goal.Progress(500, 500), 0.0001)
	assert.Equal(t, 0.0, goal.Progress(500, 0))
}

func TestSavingsGoal_PreviewAdd_DoesNotMutate(t *testing.T) {
	g := &goal.SavingsGoal{
		Name:          "Emergency fund",
		TargetAmount:  10000000, // ₹1,00,000
		CurrentAmount: 4000000,  // ₹40,000
		Status:        goal.StatusActive,
	}

	preview := g.PreviewAdd(1000000) // add ₹10,000

	assert.Equal(t, int64(5000000), preview.NewTotal)
	assert.InDelta(t, 50.0, preview.NewProgress, 0.0001)
	assert.False(t, preview.WouldReach)

	// The stored goal is untouched until the mutation is confirmed.
	assert.Equal(t, int64(4000000), g.CurrentAmount)
	assert.InDelta(t, 40.0, g.ProgressPercentage(), 0.0001)
}

func TestSavingsGoal_Remaining(t *testing.T) {
	g := &goal.SavingsGoal{TargetAmount: 1000, CurrentAmount: 400}
	assert.Equal(t, int64(600), g.RemainingAmount())
	assert.False(t, g.IsReached())

	g.CurrentAmount = 1000
	assert.Equal(t, int64(0), g.RemainingAmount())
	assert.True(t, g.IsReached())
}

func TestSavingsGoal_IsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, (&goal.SavingsGoal{TargetAmount: 100}).IsOverdue(now))

	overdue := &goal.SavingsGoal{TargetAmount: 100, Deadline: &past}
	assert.True(t, overdue.IsOverdue(now))

	reached := &goal.SavingsGoal{TargetAmount: 100, CurrentAmount: 100, Deadline: &past}
	assert.False(t, reached.IsOverdue(now))

	pending := &goal.SavingsGoal{TargetAmount: 100, Deadline: &future}
	assert.False(t, pending.IsOverdue(now))
}
