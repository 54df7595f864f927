// Package period maps named period tokens to concrete half-open UTC date
// ranges anchored to a reference instant.
package period

import "time"

// Period is a named lookback range token.
type Period string

const (
	ThisMonth    Period = "this-month"
	LastMonth    Period = "last-month"
	Last3Months  Period = "last-3-months"
	Last6Months  Period = "last-6-months"
	Last12Months Period = "last-12-months"
	YearToDate   Period = "year-to-date"
	LastYear     Period = "last-year"
	Lifetime     Period = "lifetime"
)

// Options returns all period tokens in display order.
func Options() []Period {
	return []Period{
		ThisMonth, LastMonth, Last3Months, Last6Months,
		Last12Months, YearToDate, LastYear, Lifetime,
	}
}

// Window is a half-open time range: the lower bound is inclusive, the upper
// bound exclusive, and a nil bound is unbounded. The asymmetry makes
// consecutive windows partition time with no gaps and no double-counting.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && !t.Before(*w.To) {
		return false
	}
	return true
}

// MonthStart returns the first instant of the UTC month containing t. All
// month arithmetic anchors here rather than on local wall-clock boundaries,
// so results are timezone independent.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBack returns the month start n months before the given month start.
func MonthsBack(monthStart time.Time, n int) time.Time {
	// Safe with AddDate because the day component is always 1.
	return monthStart.AddDate(0, -n, 0)
}

// YearStart returns Jan 1 00:00:00 UTC of the year containing t.
func YearStart(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last nanosecond of the UTC day containing t.
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

// Resolve maps a period token to its window relative to the reference
// instant. Unrecognized tokens resolve to the unbounded lifetime window.
func Resolve(p Period, ref time.Time) Window {
	thisMonth := MonthStart(ref)

	switch p {
	case ThisMonth:
		return Window{From: &thisMonth}
	case LastMonth:
		from := MonthsBack(thisMonth, 1)
		return Window{From: &from, To: &thisMonth}
	case Last3Months:
		from := MonthsBack(thisMonth, 2)
		return Window{From: &from}
	case Last6Months:
		from := MonthsBack(thisMonth, 5)
		return Window{From: &from}
	case Last12Months:
		from := MonthsBack(thisMonth, 11)
		return Window{From: &from}
	case YearToDate:
		from := YearStart(ref)
		return Window{From: &from}
	case LastYear:
		to := YearStart(ref)
		from := time.Date(to.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Window{From: &from, To: &to}
	default:
		return Window{}
	}
}
