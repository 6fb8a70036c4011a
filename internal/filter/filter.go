// Package filter selects the events a calendar cell or view shows.
//
// Events are bucketed by their start only. An event running past midnight
// appears on its start day and nowhere else.
package filter

import (
	"time"

	"gridcal/internal/grid"
	"gridcal/internal/model"
)

// SelectEvents returns the events whose start lies in [start, endExclusive),
// in input order.
func SelectEvents(events []model.CalendarEvent, start, endExclusive time.Time) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0)
	for _, e := range events {
		if e.Start.Before(start) || !e.Start.Before(endExclusive) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ForDay returns the events starting on day's calendar date, read in day's
// location.
func ForDay(events []model.CalendarEvent, day time.Time) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0)
	for _, e := range events {
		if grid.IsSameCalendarDay(day, e.Start) {
			out = append(out, e)
		}
	}
	return out
}

// ForView returns the events whose start falls in the window of the given
// view around anchor.
func ForView(events []model.CalendarEvent, anchor time.Time, mode model.ViewMode) []model.CalendarEvent {
	start, end := grid.Range(anchor, mode)
	return SelectEvents(events, start, end)
}

// Upcoming returns at most limit events starting strictly after now, in
// input order. A limit <= 0 means no limit.
func Upcoming(events []model.CalendarEvent, now time.Time, limit int) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0)
	for _, e := range events {
		if !e.Start.After(now) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
