package ics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "gridcal/internal/log"
	"gridcal/internal/model"
)

var ErrEmptyCalendar = errors.New("empty ICS payload")

// Import reads every VEVENT of an ICS payload into calendar events. Times
// without a zone (floating times and DATE values) are placed in loc.
//
//   - RRULE/EXDATE are ignored; only the first occurrence is imported.
//   - UIDs are not kept; the store assigns its own IDs.
//   - A VEVENT that cannot be read is logged and skipped.
func Import(r io.Reader, loc *time.Location) ([]model.CalendarEvent, error) {
	if loc == nil {
		loc = time.Local
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ics.Import: read: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyCalendar
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "bytes", len(body))
		return nil, fmt.Errorf("ics.Import: %w", err)
	}

	vevents := cal.Events()
	events := make([]model.CalendarEvent, 0, len(vevents))
	for _, ve := range vevents {
		ev, perr := parseVEvent(ve, loc)
		if perr != nil {
			appLog.Warn("ics vevent skipped", "uid", ve.Id(), "error", perr)
			continue
		}
		if prop := ve.GetProperty(ical.ComponentPropertyRrule); prop != nil {
			appLog.Debug("ics recurrence ignored", "uid", ve.Id(), "rrule", prop.Value)
		}
		events = append(events, ev)
	}

	appLog.Info("ics parse completed", "event_count", len(events), "skipped", len(vevents)-len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (model.CalendarEvent, error) {
	var out model.CalendarEvent

	out.Title = propValue(ve, ical.ComponentPropertySummary)
	out.Description = propValue(ve, ical.ComponentPropertyDescription)
	out.Location = propValue(ve, ical.ComponentPropertyLocation)
	out.Color = propValue(ve, ical.ComponentPropertyColor)

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return out, errors.New("missing DTSTART")
	}
	out.AllDay = isDate(startProp)

	start, err := readTime(ve, ical.ComponentPropertyDtStart, out.AllDay, loc)
	if err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	out.Start = start

	// DTEND is exclusive; without it a DATE event lasts one day and a
	// timed event has no duration.
	switch {
	case ve.GetProperty(ical.ComponentPropertyDtEnd) != nil:
		end, err := readTime(ve, ical.ComponentPropertyDtEnd, out.AllDay, loc)
		if err != nil {
			return out, fmt.Errorf("DTEND: %w", err)
		}
		out.End = end
	case out.AllDay:
		out.End = start.AddDate(0, 0, 1)
	default:
		out.End = start
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyAttach) {
		if a, ok := parseAttachment(p); ok {
			out.Attachments = append(out.Attachments, a)
		}
	}

	return out, nil
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

// isDate reports a DATE value: VALUE=DATE or a value without a time part.
func isDate(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters[string(ical.ParameterValue)]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// readTime uses the library's TZID handling, then moves wall clock values
// that carry no zone of their own from time.Local into loc.
func readTime(ve *ical.VEvent, prop ical.ComponentProperty, allDay bool, loc *time.Location) (time.Time, error) {
	p := ve.GetProperty(prop)

	var (
		t   time.Time
		err error
	)
	switch {
	case allDay && prop == ical.ComponentPropertyDtEnd:
		t, err = ve.GetAllDayEndAt()
	case allDay:
		t, err = ve.GetAllDayStartAt()
	case prop == ical.ComponentPropertyDtEnd:
		t, err = ve.GetEndAt()
	default:
		t, err = ve.GetStartAt()
	}
	if err != nil {
		return time.Time{}, err
	}

	_, hasTZID := p.ICalParameters[string(ical.ParameterTzid)]
	if allDay || (!hasTZID && !strings.HasSuffix(p.Value, "Z")) {
		y, m, d := t.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	return t.In(loc), nil
}

func parseAttachment(p *ical.IANAProperty) (model.Attachment, bool) {
	if p.Value == "" {
		return model.Attachment{}, false
	}
	if enc, ok := p.ICalParameters[string(ical.ParameterEncoding)]; ok && len(enc) > 0 {
		// Inline binary attachments have no URL to show.
		return model.Attachment{}, false
	}

	var fmtType string
	if vs := p.ICalParameters[string(ical.ParameterFmttype)]; len(vs) > 0 {
		fmtType = vs[0]
	}
	name := ""
	for _, key := range []string{filenameParam, "X-FILENAME", "X-APPLE-FILENAME"} {
		if vs := p.ICalParameters[key]; len(vs) > 0 && vs[0] != "" {
			name = vs[0]
			break
		}
	}
	if name == "" {
		name = nameFromURL(p.Value)
	}

	return model.Attachment{
		Name: name,
		URL:  p.Value,
		Type: attachmentType(fmtType),
	}, true
}

// attachmentType maps a media type onto the attachment kinds the calendar
// displays. Anything that is not an image or a video is a document.
func attachmentType(fmtType string) model.AttachmentType {
	major, _, _ := strings.Cut(strings.ToLower(fmtType), "/")
	switch major {
	case "image":
		return model.AttachmentImage
	case "video":
		return model.AttachmentVideo
	default:
		return model.AttachmentDocument
	}
}

func nameFromURL(raw string) string {
	raw, _, _ = strings.Cut(raw, "?")
	raw = strings.TrimRight(raw, "/")
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		raw = raw[i+1:]
	}
	if raw == "" {
		return "attachment"
	}
	return raw
}
