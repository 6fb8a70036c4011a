package model

import "time"

// ViewMode selects which calendar grid is rendered.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ParseViewMode maps a user supplied string onto a ViewMode. Unknown values
// report ok=false so callers can pick their own fallback.
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(s) {
	case ViewDay, ViewWeek, ViewMonth:
		return ViewMode(s), true
	}
	return "", false
}

// AttachmentType classifies an attachment for display.
type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentVideo    AttachmentType = "video"
	AttachmentDocument AttachmentType = "document"
)

// Valid reports whether t is one of the known attachment types.
func (t AttachmentType) Valid() bool {
	switch t {
	case AttachmentImage, AttachmentVideo, AttachmentDocument:
		return true
	}
	return false
}

type Attachment struct {
	Name string         `json:"name"`
	URL  string         `json:"url"`
	Type AttachmentType `json:"type"`
}

// CalendarEvent is a single timed entry on the calendar.
//
// Values are treated as immutable: an edit replaces the whole event under the
// same ID. Optional fields use their zero value for "absent"; defaults (for
// example the accent colour) are substituted by the renderer, not here.
type CalendarEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Color is a hex colour such as "#2563EB".
	Color string `json:"color,omitempty"`

	// AllDay is carried for display only. Filtering and layout place
	// all-day events by their Start like any other event.
	AllDay bool `json:"allDay,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty"`
}

// Clone returns a copy that does not share the attachments slice.
func (e CalendarEvent) Clone() CalendarEvent {
	if e.Attachments != nil {
		e.Attachments = append([]Attachment(nil), e.Attachments...)
	}
	return e
}

// NotificationType is the category shown by the notification panel.
type NotificationType string

const (
	NotificationEventReminder NotificationType = "event_reminder"
	NotificationEventUpdate   NotificationType = "event_update"
	NotificationSystem        NotificationType = "system"
)

// NotificationItem is an entry of the notification panel. Event is a
// display-only copy of the related event, never a handle into the store.
type NotificationItem struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Event     *CalendarEvent   `json:"event,omitempty"`
	Read      bool             `json:"read"`
}
