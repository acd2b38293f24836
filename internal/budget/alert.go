package budget

import (
	"fmt"

	"github.com/arjunks/kharcha/internal/money"
)

// AlertLevel classifies budget consumption.
type AlertLevel string

const (
	AlertNone     AlertLevel = "none"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// Classify maps a usage percentage to an alert level. Lower bounds are
// inclusive: exactly 80 is a warning, exactly 100 is critical.
func Classify(usagePct float64) AlertLevel {
	switch {
	case usagePct >= 100:
		return AlertCritical
	case usagePct >= 80:
		return AlertWarning
	default:
		return AlertNone
	}
}

// AlertMessage renders the user-facing text for a level, or "" for
// AlertNone.
func AlertMessage(level AlertLevel, usagePct float64, ceiling int64) string {
	switch level {
	case AlertCritical:
		return fmt.Sprintf("Budget exceeded! You've spent %.1f%% of your %s monthly budget.",
			usagePct, money.FormatINR(ceiling, false))
	case AlertWarning:
		return fmt.Sprintf("Warning: You've used %.1f%% of your monthly budget. Consider reducing expenses.",
			usagePct)
	default:
		return ""
	}
}
