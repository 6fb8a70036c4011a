// Package notify keeps the notification panel's entries and their read state.
package notify

import (
	"errors"
	"sync"
	"time"

	"gridcal/internal/model"
)

var ErrUnknownNotification = errors.New("notification not found")

// Center is the list shown by the notification panel, newest first as given.
type Center struct {
	mu    sync.RWMutex
	items []model.NotificationItem
}

func NewCenter(items []model.NotificationItem) *Center {
	c := &Center{items: make([]model.NotificationItem, 0, len(items))}
	for _, it := range items {
		c.items = append(c.items, clone(it))
	}
	return c
}

// Samples returns the panel's demo entries. The first and second event, when
// present, are attached to the reminder and the update entry.
func Samples(events []model.CalendarEvent, now time.Time) []model.NotificationItem {
	eventAt := func(i int) *model.CalendarEvent {
		if i >= len(events) {
			return nil
		}
		e := events[i].Clone()
		return &e
	}
	return []model.NotificationItem{
		{
			ID:        "1",
			Type:      model.NotificationEventReminder,
			Title:     "Upcoming Event",
			Message:   "Don't forget your meeting in 15 minutes!",
			Timestamp: now,
			Event:     eventAt(0),
		},
		{
			ID:        "2",
			Type:      model.NotificationSystem,
			Title:     "Welcome!",
			Message:   "Welcome to your new calendar app.",
			Timestamp: now.Add(-time.Hour),
		},
		{
			ID:        "3",
			Type:      model.NotificationEventUpdate,
			Title:     "Event Updated",
			Message:   "Team meeting location has changed.",
			Timestamp: now.Add(-24 * time.Hour),
			Event:     eventAt(1),
		},
	}
}

// All returns a copy of every entry in order.
func (c *Center) All() []model.NotificationItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.NotificationItem, len(c.items))
	for i, it := range c.items {
		out[i] = clone(it)
	}
	return out
}

// Unread returns the entries not yet marked read.
func (c *Center) Unread() []model.NotificationItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.NotificationItem
	for _, it := range c.items {
		if !it.Read {
			out = append(out, clone(it))
		}
	}
	return out
}

// UnreadCount is derived from the entries, so marking an entry twice does not
// count twice.
func (c *Center) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, it := range c.items {
		if !it.Read {
			n++
		}
	}
	return n
}

func (c *Center) MarkRead(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return nil
		}
	}
	return ErrUnknownNotification
}

func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
}

func clone(it model.NotificationItem) model.NotificationItem {
	if it.Event != nil {
		e := it.Event.Clone()
		it.Event = &e
	}
	return it
}
