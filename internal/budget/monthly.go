package budget

import (
	"sync"
	"time"

	"github.com/arjunks/kharcha/internal/events"
	"github.com/arjunks/kharcha/internal/summary"
	"github.com/arjunks/kharcha/internal/transaction"
)

// MonthlyBudget is the client-local whole-account aggregate for the
// current calendar month. It is a derived snapshot, recomputed in full
// on every input change; given the same (Amount, TotalExpense) the
// derived fields always come out identical.
type MonthlyBudget struct {
	Amount          int64 // user-set ceiling, paise
	TotalIncome     int64
	TotalExpense    int64
	RemainingBudget int64
	UsagePercentage float64
	AlertLevel      AlertLevel
	AlertMessage    string // "" when no alert or dismissed
	LastUpdated     time.Time
	Month           string // YYYY-MM
}

// MonthlyTracker keeps the MonthlyBudget aggregate in sync. It
// subscribes to transaction mutations on the bus and is also fed every
// fetched period summary. All mutation goes through its methods; the
// recompute always reads the state current at invocation time.
type MonthlyTracker struct {
	mu sync.Mutex

	ceiling      int64
	totalIncome  int64
	totalExpense int64
	level        AlertLevel
	message      string
	lastUpdated  time.Time
	month        string

	now     func() time.Time
	onAlert func(AlertLevel, string)
}

// NewMonthlyTracker wires a tracker to the bus with the given ceiling.
func NewMonthlyTracker(ceiling int64, bus *events.Bus) *MonthlyTracker {
	t := &MonthlyTracker{
		ceiling: ceiling,
		level:   AlertNone,
		now:     time.Now,
	}
	t.month = monthKey(t.now())

	if bus != nil {
		bus.Subscribe(t.onMutation)
	}

	return t
}

// SetClock overrides the tracker's notion of now; tests use it to step
// across month boundaries.
func (t *MonthlyTracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.now = now
}

// SetAlertListener registers a hook invoked on every recompute with
// the resulting level and message, repeats included.
func (t *MonthlyTracker) SetAlertListener(fn func(AlertLevel, string)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.onAlert = fn
}

// SetCeiling changes the monthly ceiling and reclassifies.
func (t *MonthlyTracker) SetCeiling(amount int64) {
	t.mu.Lock()
	t.ceiling = amount
	notify := t.recompute()
	t.mu.Unlock()

	notify()
}

// ApplySummary replaces the running totals with a fetched period
// summary for the current month.
func (t *MonthlyTracker) ApplySummary(s summary.PeriodSummary) {
	t.mu.Lock()

	t.rolloverIfNeeded()

	t.totalIncome = s.TotalIncome
	t.totalExpense = s.TotalExpenses
	notify := t.recompute()
	t.mu.Unlock()

	notify()
}

// DismissAlert clears the alert message without touching the level or
// the numeric fields. The next recompute restores the message.
func (t *MonthlyTracker) DismissAlert() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.message = ""
}

// Snapshot returns the current aggregate.
func (t *MonthlyTracker) Snapshot() MonthlyBudget {
	t.mu.Lock()
	defer t.mu.Unlock()

	return MonthlyBudget{
		Amount:          t.ceiling,
		TotalIncome:     t.totalIncome,
		TotalExpense:    t.totalExpense,
		RemainingBudget: t.ceiling - t.totalExpense,
		UsagePercentage: summary.UsagePercent(t.totalExpense, t.ceiling),
		AlertLevel:      t.level,
		AlertMessage:    t.message,
		LastUpdated:     t.lastUpdated,
		Month:           t.month,
	}
}

func (t *MonthlyTracker) onMutation(m events.Mutation) {
	t.mu.Lock()

	t.rolloverIfNeeded()

	if m.Before != nil {
		t.apply(m.Before, -1)
	}

	if m.After != nil {
		t.apply(m.After, +1)
	}

	notify := t.recompute()
	t.mu.Unlock()

	notify()
}

func (t *MonthlyTracker) apply(rec *events.MutationRecord, sign int64) {
	switch transaction.Type(rec.Type) {
	case transaction.TypeIncome:
		t.totalIncome += sign * rec.Amount
	case transaction.TypeExpense:
		t.totalExpense += sign * rec.Amount
	}
}

// recompute reclassifies from the current (ceiling, totalExpense)
// pair. Callers must hold the lock and invoke the returned notifier
// after releasing it, so a listener may call back into the tracker.
func (t *MonthlyTracker) recompute() func() {
	usage := summary.UsagePercent(t.totalExpense, t.ceiling)

	t.level = Classify(usage)
	t.message = AlertMessage(t.level, usage, t.ceiling)
	t.lastUpdated = t.now()

	if t.onAlert == nil {
		return func() {}
	}

	fn, level, message := t.onAlert, t.level, t.message

	return func() { fn(level, message) }
}

// rolloverIfNeeded zeroes the totals at the start of a new calendar
// month, keeping the ceiling. Callers must hold the lock.
func (t *MonthlyTracker) rolloverIfNeeded() {
	key := monthKey(t.now())
	if key == t.month {
		return
	}

	t.month = key
	t.totalIncome = 0
	t.totalExpense = 0
	t.level = AlertNone
	t.message = ""
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
