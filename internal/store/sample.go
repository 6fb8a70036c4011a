package store

import (
	"time"

	"gridcal/internal/log"
	"gridcal/internal/model"
)

// SampleEvents returns the demo events shown on a fresh calendar, placed
// relative to now.
func SampleEvents(now time.Time) []model.CalendarEvent {
	return []model.CalendarEvent{
		{
			Title:       "Team Meeting",
			Description: "Weekly team meeting to discuss project progress",
			Start:       now.Add(2 * time.Hour),
			End:         now.Add(3 * time.Hour),
			Location:    "Conference Room A",
			Color:       "#7C3AED",
		},
		{
			Title:       "Product Demo",
			Description: "Demonstrate the new features to the client",
			Start:       now.AddDate(0, 0, 1),
			End:         now.Add(time.Hour).AddDate(0, 0, 1),
			Location:    "Zoom Call",
			Color:       "#F97316",
		},
		{
			Title: "Design Review",
			Start: now.AddDate(0, 0, 2),
			End:   now.Add(2*time.Hour).AddDate(0, 0, 2),
			Color: "#2563EB",
		},
		{
			Title:    "Client Meeting",
			Start:    now.AddDate(0, 0, -1),
			End:      now.Add(time.Hour).AddDate(0, 0, -1),
			Location: "Client Office",
			Color:    "#D946EF",
		},
		{
			Title:    "Lunch with Marketing",
			Start:    now.AddDate(0, 0, -2),
			End:      now.Add(2*time.Hour).AddDate(0, 0, -2),
			Location: "Cafe Bistro",
			Color:    "#10B981",
		},
	}
}

// Seed adds events one by one and returns how many were accepted. Invalid
// events are logged and skipped.
func (s *Store) Seed(events []model.CalendarEvent, source string) int {
	added := 0
	for _, e := range events {
		if _, err := s.Add(e); err != nil {
			log.Warn("seed event rejected", "source", source, "title", e.Title, "error", err)
			continue
		}
		added++
	}
	log.Info("seeded events", "source", source, "added", added, "skipped", len(events)-added)
	return added
}
