// Package calendar provides pure date arithmetic for the fiscal calendar:
// calendar-month period boundaries and cadence advancement.
//
// Month addition clamps the day-of-month to the last day of the target
// month, so Jan 31 + 1 month is Feb 28 (or Feb 29 in a leap year) rather
// than overflowing into March.
package calendar

import "time"

// MonthLabel returns the English name of the given month (1-12).
func MonthLabel(month int) string {
	return time.Month(month).String()
}

// DaysInMonth returns the number of days in the given month of the given year.
func DaysInMonth(year, month int) int {
	// Day zero of the next month is the last day of this month.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last day of the given calendar month,
// both at midnight UTC.
func MonthBounds(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.Month(month), DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	return start, end
}

// AddMonths adds n calendar months to t, clamping the day-of-month to the
// last day of the target month. The time of day and location are preserved.
func AddMonths(t time.Time, n int) time.Time {
	// Shift from day 1, which can never overflow into the following month.
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).AddDate(0, n, 0)

	day := t.Day()
	if last := DaysInMonth(firstOfTarget.Year(), int(firstOfTarget.Month())); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddYears adds n calendar years to t with the same day clamping as
// AddMonths (Feb 29 + 1 year is Feb 28).
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}
