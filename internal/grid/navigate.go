package grid

import (
	"fmt"
	"time"

	"gridcal/internal/model"
)

// Navigate moves anchor by step units of the view: days for the day view,
// weeks for the week view and months for the month view. Time of day is
// preserved. Month steps clamp the day so Jan 31 + 1 month is the last day of
// February.
func Navigate(anchor time.Time, mode model.ViewMode, step int) time.Time {
	y, m, d := anchor.Date()
	hh, mm, ss := anchor.Clock()
	ns := anchor.Nanosecond()
	loc := anchor.Location()

	switch mode {
	case model.ViewDay:
		return time.Date(y, m, d+step, hh, mm, ss, ns, loc)
	case model.ViewWeek:
		return time.Date(y, m, d+7*step, hh, mm, ss, ns, loc)
	default:
		first := time.Date(y, m+time.Month(step), 1, 0, 0, 0, 0, loc)
		if n := DaysInMonth(first.Year(), first.Month(), loc); d > n {
			d = n
		}
		return time.Date(first.Year(), first.Month(), d, hh, mm, ss, ns, loc)
	}
}

// Title is the header label of a view:
//
//	day:   Monday, January 1, 2024
//	week:  7 - 13 January 2024, or 31 Dec - 6 Jan 2024 across months
//	month: January 2024
func Title(anchor time.Time, mode model.ViewMode) string {
	switch mode {
	case model.ViewDay:
		return anchor.Format("Monday, January 2, 2006")
	case model.ViewWeek:
		start := StartOfWeek(anchor)
		end := AddDays(start, 6)
		if start.Month() == end.Month() {
			return fmt.Sprintf("%d - %d %s", start.Day(), end.Day(), start.Format("January 2006"))
		}
		return fmt.Sprintf("%s - %s", start.Format("2 Jan"), end.Format("2 Jan 2006"))
	default:
		return anchor.Format("January 2006")
	}
}

// HourLabel is the gutter label of an hour row. Midnight has no label.
func HourLabel(hour int) string {
	if hour == 0 {
		return ""
	}
	return fmt.Sprintf("%d:00", hour)
}
