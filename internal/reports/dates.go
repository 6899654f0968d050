package reports

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// ParseDay parses a date-only string like "2026-03-14" anchored at noon.
// Noon anchoring keeps the calendar day stable when the value later moves
// across timezone conversions; midnight-anchored dates shift a day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), nil
}

// MonthWindow returns the inclusive [start, end] window of the month at
// the given whole-month offset from now. Offset 0 is the current month;
// negative offsets move back. Callers must reject positive offsets before
// calling: the dashboard never shows future months.
func MonthWindow(now time.Time, offset int) (start, end time.Time) {
	first := time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	end = time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 999999999, now.Location())
	return first, end
}

// DaysIn returns the number of calendar days in the given month.
func DaysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}
