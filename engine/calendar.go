package engine

import (
	"time"
)

// =============================================================================
// CALENDAR MATH - Payoff dates and month buckets
// =============================================================================

// DaysPerMonth is the approximation used when converting a month delta to
// days for user-facing deltas (ExtraDays, DaysDelta). Calendar-exact dates
// use AddMonths instead.
const DaysPerMonth = 30

// AddMonths advances a date by n calendar months, rolling over year
// boundaries (time.AddDate normalizes, so Jan 31 + 1 month = Mar 2/3;
// payoff dates are month-granular so this is acceptable).
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// MonthKey identifies a calendar month, used to bucket transactions.
type MonthKey struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (k MonthKey) Next() MonthKey {
	t := time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (k MonthKey) String() string {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// MonthsBetween counts calendar months from a to b inclusive of both ends.
// Returns 0 when b is before a.
func MonthsBetween(a, b MonthKey) int {
	if b.Before(a) {
		return 0
	}
	return (b.Year-a.Year)*12 + int(b.Month) - int(a.Month) + 1
}

// DaysBetween returns whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// FormatMonthYear renders a payoff date the way the dashboard displays it.
func FormatMonthYear(t time.Time) string {
	return t.Format("January 2006")
}
