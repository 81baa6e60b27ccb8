package metrics

import "time"

// Timeframe is a symbolic selector for a reporting window. The string values
// are part of the boundary contract with callers and round-trip unchanged.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeD1      Timeframe = "d-1"
	TimeframeD2      Timeframe = "d-2"
	TimeframeD3      Timeframe = "d-3"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeCustom  Timeframe = "custom"
	TimeframeOverall Timeframe = "overall"
)

// Window is a concrete inclusive date range. A nil bound is open on that
// side; both nil means all time.
type Window struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Unbounded reports whether the window covers all time.
func (w Window) Unbounded() bool {
	return w.Start == nil && w.End == nil
}

// Contains reports whether the calendar date of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := DateOnly(t)
	if w.Start != nil && d.Before(DateOnly(*w.Start)) {
		return false
	}
	if w.End != nil && d.After(DateOnly(*w.End)) {
		return false
	}
	return true
}

// CustomRange carries the literal bounds of a custom timeframe selection.
type CustomRange struct {
	Start *time.Time
	End   *time.Time
}

// DateOnly reduces a timestamp to its calendar date, anchored at UTC
// midnight. Record dates arrive as UTC midnight from the platform, while
// "today" is read off the host clock in the local zone; anchoring both at
// UTC midnight of the calendar date makes window containment a plain instant
// comparison regardless of the host zone.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ResolveWindow converts a timeframe selector into a concrete window,
// evaluated against the caller's local calendar date.
//
//   - daily / d-N: the single day today-N.
//   - weekly: a 7-day window ending today, shifted by offset whole weeks.
//   - monthly: the calendar month (1st to last day), shifted by offset months.
//   - custom: exactly the given bounds; a missing bound falls back to
//     unbounded. The resolver never clamps or corrects -- range validation
//     is the caller's job via IsValidDateRange.
//   - overall, or any unknown tag: all time.
func ResolveWindow(tag Timeframe, offset int, custom CustomRange, today time.Time) Window {
	today = DateOnly(today)

	switch tag {
	case TimeframeDaily, TimeframeD1, TimeframeD2, TimeframeD3:
		day := today.AddDate(0, 0, -daysBack(tag))
		return Window{Start: &day, End: &day}
	case TimeframeWeekly:
		end := today.AddDate(0, 0, offset*7)
		start := end.AddDate(0, 0, -6)
		return Window{Start: &start, End: &end}
	case TimeframeMonthly:
		first := time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, today.Location())
		last := first.AddDate(0, 1, -1)
		return Window{Start: &first, End: &last}
	case TimeframeCustom:
		if custom.Start == nil || custom.End == nil {
			return Window{}
		}
		start := DateOnly(*custom.Start)
		end := DateOnly(*custom.End)
		return Window{Start: &start, End: &end}
	default: // overall
		return Window{}
	}
}

func daysBack(tag Timeframe) int {
	switch tag {
	case TimeframeD1:
		return 1
	case TimeframeD2:
		return 2
	case TimeframeD3:
		return 3
	default:
		return 0
	}
}

// CanGoToNextWeek reports whether the weekly view may navigate one week
// forward. Offset 0 is the current week; navigating into the future is not
// allowed.
func CanGoToNextWeek(offset int) bool {
	return offset < 0
}

// CanGoToNextMonth is the monthly counterpart of CanGoToNextWeek.
func CanGoToNextMonth(offset int) bool {
	return offset < 0
}

// IsValidDateRange checks a custom range: start must not be after end and
// end must not be in the future. Invalid ranges are surfaced to the caller,
// never silently corrected.
func IsValidDateRange(start, end, today time.Time) bool {
	s, e, d := DateOnly(start), DateOnly(end), DateOnly(today)
	return !s.After(e) && !e.After(d)
}
