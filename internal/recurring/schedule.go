package recurring

import (
	"fmt"
	"time"
)

// Frequency is the cadence of a recurring schedule.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiWeekly  Frequency = "bi-weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Schedule is a frequency plus the anchor fields that frequency needs.
// DayOfWeek anchors weekly and bi-weekly schedules, DayOfMonth anchors
// monthly, quarterly and yearly ones, MonthOfYear only yearly ones.
type Schedule struct {
	Frequency   Frequency
	DayOfWeek   time.Weekday // 0=Sunday .. 6=Saturday
	DayOfMonth  int          // 1..31
	MonthOfYear time.Month   // 1..12
}

// Validate checks that the anchor fields required by the frequency are
// present and in range. A failure here is a programming-contract
// violation, not a user-facing runtime error.
func (s Schedule) Validate() error {
	switch s.Frequency {
	case FrequencyDaily:
		return nil
	case FrequencyWeekly, FrequencyBiWeekly:
		if s.DayOfWeek < time.Sunday || s.DayOfWeek > time.Saturday {
			return fmt.Errorf("%s schedule: day of week %d out of range", s.Frequency, s.DayOfWeek)
		}

		return nil
	case FrequencyMonthly, FrequencyQuarterly:
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return fmt.Errorf("%s schedule: day of month %d out of range", s.Frequency, s.DayOfMonth)
		}

		return nil
	case FrequencyYearly:
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return fmt.Errorf("yearly schedule: day of month %d out of range", s.DayOfMonth)
		}

		if s.MonthOfYear < time.January || s.MonthOfYear > time.December {
			return fmt.Errorf("yearly schedule: month %d out of range", s.MonthOfYear)
		}

		return nil
	default:
		return fmt.Errorf("unknown frequency %q", s.Frequency)
	}
}

// NextOccurrence computes the occurrence following ref.
//
// Weekly advances a full week when ref already sits on the anchor
// weekday; it never answers "today". Bi-weekly keeps the weekday anchor
// but steps 14 days from the last occurrence. Monthly and yearly are
// inclusive: the anchor date on/after ref qualifies, with the day of
// month clamped to the target month's last day (day 31 in February
// yields Feb 28, or Feb 29 in a leap year).
func NextOccurrence(s Schedule, ref time.Time) (time.Time, error) {
	if err := s.Validate(); err != nil {
		return time.Time{}, err
	}

	ref = midnight(ref)

	switch s.Frequency {
	case FrequencyDaily:
		return ref.AddDate(0, 0, 1), nil

	case FrequencyWeekly:
		delta := int(s.DayOfWeek-ref.Weekday()+7) % 7
		if delta == 0 {
			delta = 7
		}

		return ref.AddDate(0, 0, delta), nil

	case FrequencyBiWeekly:
		delta := int(s.DayOfWeek-ref.Weekday()+7) % 7
		if delta == 0 {
			delta = 14
		}

		return ref.AddDate(0, 0, delta), nil

	case FrequencyMonthly:
		next := clampedDate(ref.Year(), ref.Month(), s.DayOfMonth)
		if next.Before(ref) {
			next = clampedDate(ref.Year(), ref.Month()+1, s.DayOfMonth)
		}

		return next, nil

	case FrequencyQuarterly:
		return clampedDate(ref.Year(), ref.Month()+3, s.DayOfMonth), nil

	case FrequencyYearly:
		next := clampedDate(ref.Year(), s.MonthOfYear, s.DayOfMonth)
		if next.Before(ref) {
			next = clampedDate(ref.Year()+1, s.MonthOfYear, s.DayOfMonth)
		}

		return next, nil
	}

	return time.Time{}, fmt.Errorf("unknown frequency %q", s.Frequency)
}

// Initial aligns a freshly created schedule to its first occurrence on
// or after start. Unlike NextOccurrence, the start date itself
// qualifies for every frequency.
func Initial(s Schedule, start time.Time) (time.Time, error) {
	if err := s.Validate(); err != nil {
		return time.Time{}, err
	}

	start = midnight(start)

	switch s.Frequency {
	case FrequencyDaily:
		return start, nil

	case FrequencyWeekly, FrequencyBiWeekly:
		delta := int(s.DayOfWeek-start.Weekday()+7) % 7

		return start.AddDate(0, 0, delta), nil

	case FrequencyMonthly, FrequencyQuarterly:
		next := clampedDate(start.Year(), start.Month(), s.DayOfMonth)
		if next.Before(start) {
			next = clampedDate(start.Year(), start.Month()+1, s.DayOfMonth)
		}

		return next, nil

	case FrequencyYearly:
		next := clampedDate(start.Year(), s.MonthOfYear, s.DayOfMonth)
		if next.Before(start) {
			next = clampedDate(start.Year()+1, s.MonthOfYear, s.DayOfMonth)
		}

		return next, nil
	}

	return time.Time{}, fmt.Errorf("unknown frequency %q", s.Frequency)
}

// Advance computes the occurrence following the processed occurrence
// occ. Monthly and yearly rules are inclusive of the reference date, so
// stepping has to move past the occurrence itself; the weekday-anchored
// and fixed-step frequencies already do.
func Advance(s Schedule, occ time.Time) (time.Time, error) {
	switch s.Frequency {
	case FrequencyMonthly, FrequencyYearly:
		return NextOccurrence(s, midnight(occ).AddDate(0, 0, 1))
	default:
		return NextOccurrence(s, occ)
	}
}

// DaysUntil reports whole days between today and next, both normalized
// to midnight. A due-today occurrence reports 0.
func DaysUntil(next, today time.Time) int {
	return int(midnight(next).Sub(midnight(today)).Hours() / 24)
}

/// midnight normalizes to 00:00 UTC so date subtraction is an exact
// multiple of 24h regardless of the wall clock or zone of the input.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// clampedDate builds a date, pulling the day back to the month's last
// valid day when needed (e.g. day 31 in February).
func clampedDate(year int, month time.Month, day int) time.Time {
	// Normalize month overflow first (January + 13 etc.).
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
