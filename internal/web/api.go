package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gridcal/internal/filter"
	"gridcal/internal/grid"
	"gridcal/internal/ics"
	"gridcal/internal/layout"
	appLog "gridcal/internal/log"
	"gridcal/internal/model"
	"gridcal/internal/view"
)

const maxBodyBytes = 1 << 20

// viewRequest is the query of /api/view and /calendar.
type viewRequest struct {
	mode   model.ViewMode
	anchor time.Time
}

// parseViewRequest reads mode, date and step. step moves the anchor by whole
// views (days, weeks or months) from the parsed date; step=0 means today.
func (s *Server) parseViewRequest(r *http.Request, now time.Time) (viewRequest, error) {
	q := r.URL.Query()

	mode, ok := model.ParseViewMode(strings.ToLower(q.Get("mode")))
	if !ok {
		if q.Get("mode") != "" {
			return viewRequest{}, fmt.Errorf("unknown mode %q", q.Get("mode"))
		}
		mode = s.cfg.DefaultView
	}

	anchor, err := grid.ParseAnchor(q.Get("date"), now)
	if err != nil {
		return viewRequest{}, err
	}

	if raw := q.Get("step"); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil {
			return viewRequest{}, fmt.Errorf("step %q: %w", raw, err)
		}
		if step == 0 {
			anchor = now
		} else {
			anchor = grid.Navigate(anchor, mode, step)
		}
	}
	return viewRequest{mode: mode, anchor: anchor}, nil
}

func (s *Server) buildView(req viewRequest, now time.Time) view.Model {
	start := time.Now()
	m := view.Build(s.store.Events(), req.anchor, now, req.mode)
	s.metrics.ViewBuilt(string(req.mode), time.Since(start))
	return m
}

// handleView returns the ready-to-draw model of one view.
//
// GET /api/view?mode=week&date=2024-01-10&step=1
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	req, err := s.parseViewRequest(r, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.buildView(req, now))
}

func (s *Server) handlePalette(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default": layout.DefaultColor,
		"colors":  layout.Palette,
	})
}

type eventsResponse struct {
	Events     []model.CalendarEvent `json:"events"`
	RangeStart *time.Time            `json:"range_start,omitempty"`
	RangeEnd   *time.Time            `json:"range_end,omitempty"`
}

// handleListEvents returns the stored events, optionally only those whose
// start lies in [start, end).
//
// GET /api/events?start=2024-01-01&end=2024-02-01
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events := s.store.Events()
	if q.Get("start") == "" && q.Get("end") == "" {
		writeJSON(w, http.StatusOK, eventsResponse{Events: events})
		return
	}

	now := s.now()
	start, err := grid.ParseAnchor(q.Get("start"), now)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "start: "+err.Error())
		return
	}
	end := grid.AddDays(grid.StartOfDay(start), 1)
	if q.Get("end") != "" {
		if end, err = grid.ParseAnchor(q.Get("end"), now); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "end: "+err.Error())
			return
		}
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, codeInvalidRange, "end is before start")
		return
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:     filter.SelectEvents(events, start, end),
		RangeStart: &start,
		RangeEnd:   &end,
	})
}

func decodeEvent(r *http.Request) (model.CalendarEvent, error) {
	var e model.CalendarEvent
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&e); err != nil {
		if errors.Is(err, io.EOF) {
			return e, errors.New("request body is empty")
		}
		return e, fmt.Errorf("invalid event JSON: %w", err)
	}
	if e.Start.IsZero() {
		return e, errors.New("start is required")
	}
	return e, nil
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	e, err := decodeEvent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	added, err := s.store.Add(e)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.metrics.Mutation("add", s.store.Len())
	appLog.Info("event added", "id", added.ID, "title", added.Title)

	w.Header().Set("Location", "/api/events/"+added.ID)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	e, err := decodeEvent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	id := r.PathValue("id")
	updated, err := s.store.Edit(id, e)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.metrics.Mutation("edit", s.store.Len())
	appLog.Info("event edited", "id", id)
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteEvent answers 204 whether or not the id existed.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.store.Delete(id) {
		s.metrics.Mutation("delete", s.store.Len())
		appLog.Info("event deleted", "id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

type notificationsResponse struct {
	Items  []model.NotificationItem `json:"items"`
	Unread int                      `json:"unread"`
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	items := s.notifications.All()
	if r.URL.Query().Get("unread") == "true" {
		items = s.notifications.Unread()
	}
	if items == nil {
		items = []model.NotificationItem{}
	}
	writeJSON(w, http.StatusOK, notificationsResponse{
		Items:  items,
		Unread: s.notifications.UnreadCount(),
	})
}

// upcomingLimit is the length of the panel's "Upcoming" list.
const upcomingLimit = 3

func (s *Server) handleUpcoming(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, eventsResponse{
		Events: filter.Upcoming(s.store.Events(), s.now(), upcomingLimit),
	})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.MarkRead(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReadAll(w http.ResponseWriter, _ *http.Request) {
	s.notifications.MarkAllRead()
	w.WriteHeader(http.StatusNoContent)
}

// handleExport serves the whole store as an iCalendar file.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="gridcal.ics"`)
	if err := ics.Export(w, s.store.Events(), s.now()); err != nil {
		appLog.Error("ics export failed", err)
	}
}
