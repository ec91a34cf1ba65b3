package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BUSINESS DAYS + ATTENDANCE RATE
// =============================================================================

// BusinessDays counts the days in [from, to], inclusive, excluding Sundays
// only. Saturdays count: several product lines run six-day weeks, so the
// attendance-rate denominator keeps them.
func BusinessDays(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return 0
	}

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Sunday {
			count++
		}
	}
	return count
}

// AttendanceRate returns presentDays over the business days in [from, to],
// as a fraction rounded to four places. A zero denominator yields zero.
func AttendanceRate(presentDays int, from, to time.Time) decimal.Decimal {
	days := BusinessDays(from, to)
	if days == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(presentDays)).
		Div(decimal.NewFromInt(int64(days))).
		Round(4)
}

func truncateDay(t time.Time) time.Time {
	lt := t.Local()
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, lt.Location())
}
