// Package money holds amounts as int64 paise and formats them for display.
package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// enIN groups digits in the Indian system (1,00,000 rather than 100,000).
var enIN = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders paise as a rupee string with the ₹ symbol.
// With withPaise the fractional part is always printed to two places;
// without it the amount is rounded to whole rupees.
func FormatINR(paise int64, withPaise bool) string {
	neg := paise < 0
	if neg {
		paise = -paise
	}

	var s string

	if withPaise {
		s = fmt.Sprintf("₹%s.%02d", groupRupees(paise/100), paise%100)
	} else {
		s = "₹" + groupRupees((paise+50)/100)
	}

	if neg {
		return "-" + s
	}

	return s
}

func groupRupees(rupees int64) string {
	return enIN.Sprintf("%v", number.Decimal(rupees))
}

// FormatPercent renders a percentage to one decimal place, e.g. "84.0%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatSignedPercent is FormatPercent with an explicit leading sign,
// used for period-over-period change ("+12.5%", "-50.0%").
func FormatSignedPercent(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

// ParseAmount parses a decimal rupee string into paise.
// Format examples: "1234.56" -> 123456, "-500" -> -50000, "10.5" -> 1050.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// Amount is an int64 paise value that unmarshals from either a JSON
// number or a JSON string; the API transports amounts both ways.
// It marshals as a decimal rupee number.
type Amount int64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*a = 0
		return nil
	}

	paise, err := ParseAmount(s)
	if err != nil {
		return err
	}

	*a = Amount(paise)

	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(decimal.New(int64(a), -2))
}

// Paise returns the raw int64 value.
func (a Amount) Paise() int64 { return int64(a) }
