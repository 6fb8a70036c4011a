package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"gridcal/internal/filter"
	"gridcal/internal/layout"
	appLog "gridcal/internal/log"
	"gridcal/internal/model"
	"gridcal/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("calendar.html").Funcs(template.FuncMap{
		"ymd":   func(t time.Time) string { return t.Format("2006-01-02") },
		"dom":   func(t time.Time) int { return t.Day() },
		"dow":   func(t time.Time) string { return t.Format("Mon") },
		"color": layout.ColorOf,
	}).ParseFS(templateFS, "templates/calendar.html"),
)

type modeLink struct {
	Mode   model.ViewMode
	URL    string
	Active bool
}

type pageData struct {
	view.Model
	Modes    []modeLink
	PrevURL  string
	NextURL  string
	TodayURL string
	Upcoming []model.CalendarEvent
	Unread   int
	Zone     string

	loc *time.Location
}

// Clock formats t as HH:MM in the calendar's zone.
func (p pageData) Clock(t time.Time) string {
	return t.In(p.loc).Format("15:04")
}

func calendarURL(mode model.ViewMode, date time.Time) string {
	q := url.Values{}
	q.Set("mode", string(mode))
	q.Set("date", date.Format("2006-01-02"))
	return "/calendar?" + q.Encode()
}

// handleCalendarPage renders the calendar as HTML. The root element carries
// data-ready="true" so the preview capture knows the page is complete.
//
// GET /calendar?mode=month&date=2024-01-10&step=-1
func (s *Server) handleCalendarPage(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	req, err := s.parseViewRequest(r, now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m := s.buildView(req, now)

	data := pageData{
		Model:    m,
		PrevURL:  calendarURL(m.Mode, m.Prev),
		NextURL:  calendarURL(m.Mode, m.Next),
		TodayURL: calendarURL(m.Mode, now),
		Upcoming: filter.Upcoming(s.store.Events(), now, upcomingLimit),
		Unread:   s.notifications.UnreadCount(),
		Zone:     s.loc.String(),
		loc:      s.loc,
	}
	for _, mode := range []model.ViewMode{model.ViewDay, model.ViewWeek, model.ViewMonth} {
		data.Modes = append(data.Modes, modeLink{
			Mode:   mode,
			URL:    calendarURL(mode, m.Anchor),
			Active: mode == m.Mode,
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		appLog.Error("calendar template failed", err, "mode", m.Mode)
		http.Error(w, "failed to render calendar", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
