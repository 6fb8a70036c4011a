package filter

import (
	"testing"
	"time"

	"gridcal/internal/model"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func titles(events []model.CalendarEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func equalTitles(t *testing.T, got []model.CalendarEvent, want ...string) {
	t.Helper()
	g := titles(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestForDay_BucketsByStartOnly(t *testing.T) {
	t.Parallel()

	lateNight := model.CalendarEvent{
		ID:    "late",
		Title: "Late night",
		Start: at(2024, time.January, 1, 23, 30),
		End:   at(2024, time.January, 2, 0, 30),
	}
	events := []model.CalendarEvent{lateNight}

	equalTitles(t, ForDay(events, at(2024, time.January, 1, 0, 0)), "Late night")
	// The event still runs on Jan 2 but is not shown there.
	equalTitles(t, ForDay(events, at(2024, time.January, 2, 0, 0)))
	equalTitles(t, ForDay(events, at(2024, time.January, 2, 12, 0)))
}

func TestSelectEvents_HalfOpenRange(t *testing.T) {
	t.Parallel()

	start := at(2024, time.January, 7, 0, 0)
	end := at(2024, time.January, 14, 0, 0)
	events := []model.CalendarEvent{
		{Title: "before", Start: start.Add(-time.Minute), End: start.Add(time.Hour)},
		{Title: "at start", Start: start, End: start.Add(time.Hour)},
		{Title: "middle", Start: at(2024, time.January, 10, 12, 0), End: at(2024, time.January, 10, 13, 0)},
		{Title: "at end", Start: end, End: end.Add(time.Hour)},
		{Title: "last minute", Start: end.Add(-time.Minute), End: end.Add(time.Hour)},
	}

	equalTitles(t, SelectEvents(events, start, end), "at start", "middle", "last minute")
}

func TestForView_Week(t *testing.T) {
	t.Parallel()

	events := []model.CalendarEvent{
		{Title: "saturday before", Start: at(2024, time.January, 6, 23, 0), End: at(2024, time.January, 7, 1, 0)},
		{Title: "sunday", Start: at(2024, time.January, 7, 0, 0), End: at(2024, time.January, 7, 1, 0)},
		{Title: "saturday", Start: at(2024, time.January, 13, 23, 59), End: at(2024, time.January, 14, 1, 0)},
		{Title: "next sunday", Start: at(2024, time.January, 14, 0, 0), End: at(2024, time.January, 14, 1, 0)},
	}

	// The anchor's time of day must not shift the window.
	equalTitles(t, ForView(events, at(2024, time.January, 10, 18, 0), model.ViewWeek), "sunday", "saturday")
}

func TestForView_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	events := []model.CalendarEvent{
		{Title: "c", Start: at(2024, time.January, 10, 15, 0), End: at(2024, time.January, 10, 16, 0)},
		{Title: "a", Start: at(2024, time.January, 10, 9, 0), End: at(2024, time.January, 10, 10, 0)},
		{Title: "b", Start: at(2024, time.January, 10, 12, 0), End: at(2024, time.January, 10, 13, 0)},
	}

	equalTitles(t, ForView(events, at(2024, time.January, 10, 0, 0), model.ViewDay), "c", "a", "b")
	equalTitles(t, ForDay(events, at(2024, time.January, 10, 0, 0)), "c", "a", "b")
}

func TestUpcoming(t *testing.T) {
	t.Parallel()

	now := at(2024, time.January, 10, 12, 0)
	events := []model.CalendarEvent{
		{Title: "past", Start: now.Add(-time.Hour)},
		{Title: "now", Start: now},
		{Title: "soon", Start: now.Add(time.Minute)},
		{Title: "later", Start: now.Add(48 * time.Hour)},
		{Title: "tomorrow", Start: now.Add(24 * time.Hour)},
		{Title: "next week", Start: now.Add(7 * 24 * time.Hour)},
	}

	equalTitles(t, Upcoming(events, now, 3), "soon", "later", "tomorrow")
	equalTitles(t, Upcoming(events, now, 0), "soon", "later", "tomorrow", "next week")
}
