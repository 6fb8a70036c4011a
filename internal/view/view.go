// Package view assembles the ready-to-draw models of the day, week and month
// calendars from the grid, filter and layout packages. It holds no state: the
// caller passes the events and a clock sample taken for this render.
package view

import (
	"time"

	"gridcal/internal/grid"
	"gridcal/internal/layout"
	"gridcal/internal/model"
)

// Hour is a row of the timed views.
type Hour struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
}

// Column is one day of a timed view with the blocks drawn in it.
type Column struct {
	grid.Cell
	Placements []layout.Placement `json:"placements"`
	// ShowNow is set on today's column; the line sits at Model.NowOffset.
	ShowNow bool `json:"showNow"`
}

// Model is everything a renderer needs for one view.
type Model struct {
	Mode   model.ViewMode `json:"mode"`
	Anchor time.Time      `json:"anchor"`
	Title  string         `json:"title"`
	Prev   time.Time      `json:"prev"`
	Next   time.Time      `json:"next"`

	RangeStart time.Time `json:"rangeStart"`
	RangeEnd   time.Time `json:"rangeEnd"`

	// Timed views.
	Hours     []Hour   `json:"hours,omitempty"`
	Columns   []Column `json:"columns,omitempty"`
	NowOffset int      `json:"nowOffset"`
	DayHeight int      `json:"dayHeight,omitempty"`

	// Month view.
	Cells []layout.MonthCell `json:"cells,omitempty"`

	RenderedAt time.Time `json:"renderedAt"`
}

// Build computes the model for mode around anchor. anchor is first moved
// into now's location so every calendar comparison happens in one zone.
func Build(events []model.CalendarEvent, anchor, now time.Time, mode model.ViewMode) Model {
	if _, ok := model.ParseViewMode(string(mode)); !ok {
		mode = model.ViewMonth
	}
	anchor = anchor.In(now.Location())
	start, end := grid.Range(anchor, mode)

	m := Model{
		Mode:       mode,
		Anchor:     anchor,
		Title:      grid.Title(anchor, mode),
		Prev:       grid.Navigate(anchor, mode, -1),
		Next:       grid.Navigate(anchor, mode, 1),
		RangeStart: start,
		RangeEnd:   end,
		NowOffset:  layout.NowOffset(now),
		RenderedAt: now,
	}

	switch mode {
	case model.ViewMonth:
		m.Cells = layout.Month(events, anchor, now)
	case model.ViewDay:
		m.timed(layout.Day(events, anchor), grid.Cells(anchor, now, mode), false)
	case model.ViewWeek:
		m.timed(layout.Week(events, anchor), grid.Cells(anchor, now, mode), true)
	}
	return m
}

func (m *Model) timed(placements []layout.Placement, cells []grid.Cell, byWeekday bool) {
	m.DayHeight = layout.DayHeight
	for _, h := range grid.Hours() {
		m.Hours = append(m.Hours, Hour{Hour: h, Label: grid.HourLabel(h)})
	}

	m.Columns = make([]Column, len(cells))
	for i, c := range cells {
		m.Columns[i] = Column{Cell: c, Placements: []layout.Placement{}, ShowNow: c.Today}
	}
	for _, p := range placements {
		col := 0
		if byWeekday {
			col = p.DayColumn
		}
		m.Columns[col].Placements = append(m.Columns[col].Placements, p)
	}
}

// Weeks splits the month cells into rows of seven.
func (m Model) Weeks() [][]layout.MonthCell {
	rows := make([][]layout.MonthCell, 0, len(m.Cells)/7)
	for i := 0; i+7 <= len(m.Cells); i += 7 {
		rows = append(rows, m.Cells[i:i+7])
	}
	return rows
}

// Placements returns every timed block of the view in column order.
func (m Model) Placements() []layout.Placement {
	var out []layout.Placement
	for _, c := range m.Columns {
		out = append(out, c.Placements...)
	}
	return out
}
