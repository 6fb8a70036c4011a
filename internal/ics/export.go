package ics

import (
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"gridcal/internal/grid"
	"gridcal/internal/model"
)

const (
	productID = "gridcal"
	uidSuffix = "@gridcal"

	filenameParam = "FILENAME"
)

// Export writes events as a PUBLISH calendar. DTSTAMP is set to now.
func Export(w io.Writer, events []model.CalendarEvent, now time.Time) error {
	cal := ical.NewCalendarFor(productID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(productID)

	for _, e := range events {
		ve := cal.AddEvent(e.ID + uidSuffix)
		ve.SetDtStampTime(now)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Color != "" {
			ve.SetColor(e.Color)
		}

		if e.AllDay {
			ve.SetAllDayStartAt(e.Start)
			ve.SetAllDayEndAt(allDayEnd(e))
		} else {
			ve.SetStartAt(e.Start)
			ve.SetEndAt(e.End)
		}

		for _, a := range e.Attachments {
			ve.AddAttachment(a.URL,
				ical.WithFmtType(contentType(a)),
				&ical.KeyValues{Key: filenameParam, Value: []string{a.Name}},
			)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("ics.Export: %w", err)
	}
	return nil
}

// allDayEnd is the exclusive DTEND date: the day after the last covered day.
func allDayEnd(e model.CalendarEvent) time.Time {
	end := e.End.In(e.Start.Location())
	day := grid.StartOfDay(end)
	if end.Equal(day) && end.After(e.Start) {
		return day
	}
	return grid.AddDays(day, 1)
}

func contentType(a model.Attachment) string {
	ext := path.Ext(strings.SplitN(a.URL, "?", 2)[0])
	if ct := mime.TypeByExtension(ext); ct != "" {
		ct, _, _ = strings.Cut(ct, ";")
		if attachmentType(ct) == a.Type {
			return ct
		}
	}
	switch a.Type {
	case model.AttachmentImage:
		return "image/*"
	case model.AttachmentVideo:
		return "video/*"
	default:
		return "application/octet-stream"
	}
}
