// Package goal implements savings goals and their progress math.
package goal

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a savings goal does not exist.
var ErrNotFound = errors.New("savings goal not found")

// Status is the lifecycle state of a goal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

// SavingsGoal is a named target with progress tracking. CurrentAmount
// only ever grows, via AddAmount.
type SavingsGoal struct {
	ID            uuid.UUID
	Name          string
	TargetAmount  int64 // paise, > 0
	CurrentAmount int64
	Deadline      *time.Time
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Progress computes a completion percentage, guarding a zero target.
func Progress(current, target int64) float64 {
	if target <= 0 {
		return 0
	}

	return float64(current) / float64(target) * 100
}

// RemainingAmount is how far the goal still has to go, never negative.
func (g *SavingsGoal) RemainingAmount() int64 {
	if g.CurrentAmount >= g.TargetAmount {
		return 0
	}

	return g.TargetAmount - g.CurrentAmount
}

// ProgressPercentage is the stored progress of the goal.
func (g *SavingsGoal) ProgressPercentage() float64 {
	return Progress(g.CurrentAmount, g.TargetAmount)
}

// IsReached reports whether the target has been met.
func (g *SavingsGoal) IsReached() bool {
	return g.CurrentAmount >= g.TargetAmount
}

// IsOverdue reports whether the deadline passed without the target
// being reached.
func (g *SavingsGoal) IsOverdue(now time.Time) bool {
	return g.Deadline != nil && now.After(*g.Deadline) && !g.IsReached()
}

// AddPreview is the projected effect of adding delta to the goal.
type AddPreview struct {
	NewTotal    int64
	NewProgress float64
	WouldReach  bool
}

// PreviewAdd projects an addition without mutating the stored goal;
// the projection is only committed when the add-amount call succeeds.
func (g *SavingsGoal) PreviewAdd(delta int64) AddPreview {
	newTotal := g.CurrentAmount + delta

	return AddPreview{
		NewTotal:    newTotal,
		NewProgress: Progress(newTotal, g.TargetAmount),
		WouldReach:  newTotal >= g.TargetAmount,
	}
}
