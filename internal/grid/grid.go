// Package grid computes the calendar cells a view has to draw for an anchor
// date. All arithmetic happens in the anchor's location and weeks start on
// Sunday.
package grid

import (
	"time"

	"gridcal/internal/model"
)

// HoursPerDay is the fixed number of hour rows of the timed views.
const HoursPerDay = 24

// Cell is one day slot of a day, week or month grid.
type Cell struct {
	Date time.Time `json:"date"`
	// OutsideMonth marks leading/trailing days of a month grid that belong
	// to the adjacent month. Always false for day and week views.
	OutsideMonth bool `json:"outsideMonth"`
	Today        bool `json:"today"`
}

// IsSameCalendarDay reports whether a and b fall on the same year, month and
// day. b is read in a's location; time of day is ignored.
func IsSameCalendarDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns local midnight of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	return AddDays(t, 0)
}

// AddDays returns midnight of the date n days after t's date. Going through
// time.Date keeps the result on a calendar boundary across DST shifts.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return AddDays(t, -int(t.Weekday()))
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns midnight of the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// Days returns the ordered dates (at midnight) a view shows for anchor.
//
//   - day:   the anchor's date
//   - week:  Sunday on or before the anchor, plus the following six days
//   - month: Sunday on or before the 1st through the Saturday on or after the
//     last day, so the length is always a multiple of 7
func Days(anchor time.Time, mode model.ViewMode) []time.Time {
	switch mode {
	case model.ViewDay:
		return []time.Time{StartOfDay(anchor)}
	case model.ViewWeek:
		start := StartOfWeek(anchor)
		days := make([]time.Time, 7)
		for i := range days {
			days[i] = AddDays(start, i)
		}
		return days
	default:
		first := StartOfMonth(anchor)
		last := EndOfMonth(anchor)
		start := AddDays(first, -int(first.Weekday()))
		end := AddDays(last, 6-int(last.Weekday()))

		days := make([]time.Time, 0, 42)
		for d := start; !d.After(end); d = AddDays(d, 1) {
			days = append(days, d)
		}
		return days
	}
}

// Range returns the half-open interval [start, end) covered by Days.
func Range(anchor time.Time, mode model.ViewMode) (start, end time.Time) {
	days := Days(anchor, mode)
	return days[0], AddDays(days[len(days)-1], 1)
}

// Cells decorates Days with the outside-month and today flags. now is the
// clock sample taken for this render.
func Cells(anchor, now time.Time, mode model.ViewMode) []Cell {
	days := Days(anchor, mode)
	cells := make([]Cell, len(days))
	for i, d := range days {
		cells[i] = Cell{
			Date:  d,
			Today: IsSameCalendarDay(d, now),
		}
		if mode == model.ViewMonth {
			cells[i].OutsideMonth = d.Year() != anchor.Year() || d.Month() != anchor.Month()
		}
	}
	return cells
}

// Hours returns the hour rows 0..23 of the timed views.
func Hours() []int {
	hours := make([]int, HoursPerDay)
	for i := range hours {
		hours[i] = i
	}
	return hours
}
