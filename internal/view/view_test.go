package view

import (
	"testing"
	"time"

	"gridcal/internal/layout"
	"gridcal/internal/model"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

var sample = []model.CalendarEvent{
	{ID: "1", Title: "Standup", Start: at(2024, time.January, 10, 9, 0), End: at(2024, time.January, 10, 9, 15)},
	{ID: "2", Title: "Review", Start: at(2024, time.January, 12, 14, 0), End: at(2024, time.January, 12, 16, 0), Color: "#2563EB"},
	{ID: "3", Title: "Late", Start: at(2024, time.January, 13, 23, 30), End: at(2024, time.January, 14, 0, 30)},
	{ID: "4", Title: "Next week", Start: at(2024, time.January, 15, 9, 0), End: at(2024, time.January, 15, 10, 0)},
}

func TestBuild_Week(t *testing.T) {
	t.Parallel()

	now := at(2024, time.January, 10, 13, 20)
	m := Build(sample, now, now, model.ViewWeek)

	if m.Title != "7 - 13 January 2024" {
		t.Fatalf("title = %q", m.Title)
	}
	if len(m.Columns) != 7 || len(m.Hours) != 24 {
		t.Fatalf("columns %d hours %d", len(m.Columns), len(m.Hours))
	}
	if m.NowOffset != 13*60+20 || m.DayHeight != layout.DayHeight {
		t.Fatalf("now offset %d day height %d", m.NowOffset, m.DayHeight)
	}
	if !m.Columns[3].ShowNow || m.Columns[2].ShowNow {
		t.Fatalf("now line must be on wednesday only")
	}

	counts := []int{0, 0, 0, 1, 0, 1, 1}
	for i, c := range m.Columns {
		if len(c.Placements) != counts[i] {
			t.Fatalf("column %d placements = %d, want %d", i, len(c.Placements), counts[i])
		}
	}
	if got := len(m.Placements()); got != 3 {
		t.Fatalf("placements = %d, want 3", got)
	}
	if !m.Prev.Equal(at(2024, time.January, 3, 13, 20)) || !m.Next.Equal(at(2024, time.January, 17, 13, 20)) {
		t.Fatalf("prev %s next %s", m.Prev, m.Next)
	}
	if m.Cells != nil {
		t.Fatalf("week view has no month cells")
	}
}

func TestBuild_Day(t *testing.T) {
	t.Parallel()

	now := at(2024, time.January, 10, 8, 0)
	m := Build(sample, at(2024, time.January, 13, 12, 0), now, model.ViewDay)

	if len(m.Columns) != 1 {
		t.Fatalf("columns = %d", len(m.Columns))
	}
	if m.Columns[0].ShowNow {
		t.Fatalf("jan 13 is not today")
	}
	ps := m.Columns[0].Placements
	if len(ps) != 1 || ps[0].Event.ID != "3" {
		t.Fatalf("placements = %+v", ps)
	}
	if ps[0].Top != 23*60+30 || ps[0].Height != layout.MinimumHeight {
		t.Fatalf("late event geometry = %+v", ps[0].Geometry)
	}
	if m.Hours[0].Label != "" || m.Hours[9].Label != "9:00" {
		t.Fatalf("hour labels = %q %q", m.Hours[0].Label, m.Hours[9].Label)
	}
}

func TestBuild_Month(t *testing.T) {
	t.Parallel()

	now := at(2024, time.January, 10, 8, 0)
	m := Build(sample, now, now, model.ViewMonth)

	if m.Title != "January 2024" {
		t.Fatalf("title = %q", m.Title)
	}
	if len(m.Cells) != 35 || len(m.Weeks()) != 5 {
		t.Fatalf("cells %d weeks %d", len(m.Cells), len(m.Weeks()))
	}
	if m.Columns != nil {
		t.Fatalf("month view has no timed columns")
	}
	var listed int
	for _, c := range m.Cells {
		listed += c.Total
	}
	if listed != len(sample) {
		t.Fatalf("listed = %d, want %d", listed, len(sample))
	}
}

func TestBuild_UnknownModeFallsBackToMonth(t *testing.T) {
	t.Parallel()

	now := at(2024, time.January, 10, 8, 0)
	if m := Build(nil, now, now, "year"); m.Mode != model.ViewMonth {
		t.Fatalf("mode = %q", m.Mode)
	}
}
