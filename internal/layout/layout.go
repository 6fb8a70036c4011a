// Package layout positions events inside the calendar grids.
//
// Timed views (day, week) use a vertical axis of one unit per minute since
// midnight, so a whole day is 1440 units tall. Month view buckets events per
// day cell and caps the visible entries.
//
// Overlapping timed events are not packed side by side: they share the same
// column and stack in input order. Every event of a visible day gets a
// placement.
package layout

import (
	"fmt"
	"time"

	"gridcal/internal/filter"
	"gridcal/internal/grid"
	"gridcal/internal/model"
)

const (
	// PixelsPerMinute is the vertical scale of the timed views.
	PixelsPerMinute = 1
	// DayHeight is the height of a full day column.
	DayHeight = 24 * 60 * PixelsPerMinute
	// MinimumHeight keeps short events visible and clickable.
	MinimumHeight = 30 * PixelsPerMinute
	// TimeLabelThreshold is the height above which a timed block also shows
	// its start time.
	TimeLabelThreshold = 40 * PixelsPerMinute
	// MonthCellCap is the number of events listed per month cell before the
	// "+N more" label takes over.
	MonthCellCap = 3
	// DefaultColor is used for events without a colour.
	DefaultColor = "#7C3AED"
)

// Swatch is a named entry of the event colour palette.
type Swatch struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Palette lists the colours offered when creating an event.
var Palette = []Swatch{
	{Label: "Purple", Value: "#7C3AED"},
	{Label: "Pink", Value: "#D946EF"},
	{Label: "Blue", Value: "#2563EB"},
	{Label: "Green", Value: "#10B981"},
	{Label: "Orange", Value: "#F97316"},
	{Label: "Red", Value: "#EF4444"},
}

// ColorOf returns the event's colour or DefaultColor.
func ColorOf(e model.CalendarEvent) string {
	if e.Color == "" {
		return DefaultColor
	}
	return e.Color
}

// Geometry is the vertical extent of a timed block.
type Geometry struct {
	Top    int `json:"top"`
	Height int `json:"height"`
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Timed maps an event onto the timed axis, reading clock times in loc.
// Height is computed from the clock times alone, so an event ending after
// midnight falls back to MinimumHeight.
func Timed(e model.CalendarEvent, loc *time.Location) Geometry {
	start := minuteOfDay(e.Start.In(loc))
	end := minuteOfDay(e.End.In(loc))
	return Geometry{
		Top:    start * PixelsPerMinute,
		Height: max(MinimumHeight, (end-start)*PixelsPerMinute),
	}
}

// ShowsTimeLabel reports whether a block of the given height has room for
// its start time under the title.
func ShowsTimeLabel(height int) bool {
	return height > TimeLabelThreshold
}

// NowOffset is the position of the current-time indicator line.
func NowOffset(now time.Time) int {
	return minuteOfDay(now) * PixelsPerMinute
}

// Placement is a timed event with its geometry.
type Placement struct {
	Event model.CalendarEvent `json:"event"`
	Geometry
	// DayColumn is the weekday of the event's start, 0 for Sunday. It is
	// always 0 in the day view.
	DayColumn int    `json:"dayColumn"`
	Color     string `json:"color"`
	ShowTime  bool   `json:"showTime"`
}

func place(e model.CalendarEvent, loc *time.Location) Placement {
	g := Timed(e, loc)
	return Placement{
		Event:    e,
		Geometry: g,
		Color:    ColorOf(e),
		ShowTime: ShowsTimeLabel(g.Height),
	}
}

// Day lays out the events starting on day's date.
func Day(events []model.CalendarEvent, day time.Time) []Placement {
	loc := day.Location()
	dayEvents := filter.ForDay(events, day)
	out := make([]Placement, 0, len(dayEvents))
	for _, e := range dayEvents {
		out = append(out, place(e, loc))
	}
	return out
}

// Week lays out the events of the Sunday-based week containing anchor. The
// column comes from each event's own start, not from its position in the
// week range.
func Week(events []model.CalendarEvent, anchor time.Time) []Placement {
	loc := anchor.Location()
	weekEvents := filter.ForView(events, anchor, model.ViewWeek)
	out := make([]Placement, 0, len(weekEvents))
	for _, e := range weekEvents {
		p := place(e, loc)
		p.DayColumn = int(e.Start.In(loc).Weekday())
		out = append(out, p)
	}
	return out
}

// MonthCell is a month grid cell with the events it lists.
type MonthCell struct {
	grid.Cell
	// Events holds at most MonthCellCap events, in input order.
	Events []model.CalendarEvent `json:"events"`
	Total  int                   `json:"total"`
	// More counts the events hidden behind the "+N more" label.
	More int `json:"more"`
}

// MoreLabel returns "+N more" when events are hidden, or "".
func (c MonthCell) MoreLabel() string {
	if c.More <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d more", c.More)
}

// Cap splits a cell's events into the visible ones and the hidden count.
func Cap(events []model.CalendarEvent) (visible []model.CalendarEvent, more int) {
	if len(events) <= MonthCellCap {
		return events, 0
	}
	return events[:MonthCellCap], len(events) - MonthCellCap
}

// Month builds the month grid around anchor. Outside-month cells still list
// their own events.
func Month(events []model.CalendarEvent, anchor, now time.Time) []MonthCell {
	cells := grid.Cells(anchor, now, model.ViewMonth)
	out := make([]MonthCell, len(cells))
	for i, c := range cells {
		dayEvents := filter.ForDay(events, c.Date)
		visible, more := Cap(dayEvents)
		out[i] = MonthCell{
			Cell:   c,
			Events: visible,
			Total:  len(dayEvents),
			More:   more,
		}
	}
	return out
}
