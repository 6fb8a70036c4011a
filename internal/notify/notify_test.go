package notify

import (
	"errors"
	"testing"
	"time"

	"gridcal/internal/model"
)

var now = time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)

func TestSamples(t *testing.T) {
	t.Parallel()

	events := []model.CalendarEvent{{ID: "a", Title: "Team Meeting"}, {ID: "b", Title: "Product Demo"}}
	items := Samples(events, now)
	if len(items) != 3 {
		t.Fatalf("samples = %d", len(items))
	}
	if items[0].Event == nil || items[0].Event.ID != "a" {
		t.Fatalf("reminder event = %+v", items[0].Event)
	}
	if items[1].Event != nil {
		t.Fatalf("system entry has no event")
	}
	if items[2].Event == nil || items[2].Event.ID != "b" {
		t.Fatalf("update event = %+v", items[2].Event)
	}
	if !items[2].Timestamp.Equal(now.Add(-24 * time.Hour)) {
		t.Fatalf("update timestamp = %s", items[2].Timestamp)
	}
}

func TestSamples_WithoutEvents(t *testing.T) {
	t.Parallel()

	for _, it := range Samples(nil, now) {
		if it.Event != nil {
			t.Fatalf("%s has event without any events", it.ID)
		}
	}
}

func TestCenter_MarkRead(t *testing.T) {
	t.Parallel()

	c := NewCenter(Samples(nil, now))
	if c.UnreadCount() != 3 {
		t.Fatalf("unread = %d", c.UnreadCount())
	}

	if err := c.MarkRead("2"); err != nil {
		t.Fatalf("MarkRead() error: %v", err)
	}
	if err := c.MarkRead("2"); err != nil {
		t.Fatalf("MarkRead() twice error: %v", err)
	}
	if c.UnreadCount() != 2 {
		t.Fatalf("unread after marking one twice = %d, want 2", c.UnreadCount())
	}
	unread := c.Unread()
	if len(unread) != 2 || unread[0].ID != "1" || unread[1].ID != "3" {
		t.Fatalf("Unread() = %+v", unread)
	}

	if err := c.MarkRead("missing"); !errors.Is(err, ErrUnknownNotification) {
		t.Fatalf("MarkRead(missing) error = %v", err)
	}
}

func TestCenter_MarkAllRead(t *testing.T) {
	t.Parallel()

	c := NewCenter(Samples(nil, now))
	c.MarkAllRead()
	if c.UnreadCount() != 0 || len(c.Unread()) != 0 {
		t.Fatalf("unread after MarkAllRead = %d", c.UnreadCount())
	}
	for _, it := range c.All() {
		if !it.Read {
			t.Fatalf("%s still unread", it.ID)
		}
	}
}

func TestCenter_AllReturnsCopies(t *testing.T) {
	t.Parallel()

	c := NewCenter(Samples([]model.CalendarEvent{{ID: "a", Title: "Team Meeting"}}, now))
	all := c.All()
	all[0].Read = true
	all[0].Event.Title = "changed"

	again := c.All()
	if again[0].Read || again[0].Event.Title != "Team Meeting" {
		t.Fatalf("center shares memory with caller: %+v", again[0])
	}
}
