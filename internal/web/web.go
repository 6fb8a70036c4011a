package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gridcal/internal/config"
	appLog "gridcal/internal/log"
	"gridcal/internal/metric"
	"gridcal/internal/notify"
	"gridcal/internal/store"
)

// Deps are the collaborators a Server works on.
type Deps struct {
	Store         *store.Store
	Notifications *notify.Center
	Metrics       *metric.Recorder
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Clock is sampled once per request. Nil means time.Now.
	Clock    func() time.Time
	Location *time.Location
}

// Server provides the calendar page and the JSON API over one event store.
type Server struct {
	cfg           *config.Config
	store         *store.Store
	notifications *notify.Center
	metrics       *metric.Recorder
	gatherer      prometheus.Gatherer
	clock         func() time.Time
	loc           *time.Location
	mux           *http.ServeMux
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:           cfg,
		store:         deps.Store,
		notifications: deps.Notifications,
		metrics:       deps.Metrics,
		gatherer:      deps.Gatherer,
		clock:         deps.Clock,
		loc:           deps.Location,
		mux:           http.NewServeMux(),
	}
	if s.cfg == nil {
		s.cfg = config.DefaultConfig()
	}
	if s.store == nil {
		s.store = store.New()
	}
	if s.notifications == nil {
		s.notifications = notify.NewCenter(nil)
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="gridcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ListenAndServe serves on cfg.Listen until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/view", s.handleView)
	s.mux.HandleFunc("GET /api/palette", s.handlePalette)
	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("PUT /api/events/{id}", s.handleUpdateEvent)
	s.mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)

	s.mux.HandleFunc("GET /api/notifications", s.handleNotifications)
	s.mux.HandleFunc("GET /api/notifications/upcoming", s.handleUpcoming)
	s.mux.HandleFunc("POST /api/notifications/read-all", s.handleReadAll)
	s.mux.HandleFunc("POST /api/notifications/{id}/read", s.handleMarkRead)

	s.mux.HandleFunc("GET /calendar", s.handleCalendarPage)
	s.mux.HandleFunc("GET /calendar.ics", s.handleExport)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})

	if s.cfg.Metrics && s.gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// now samples the clock once for a request, in the calendar's zone.
func (s *Server) now() time.Time {
	return s.clock().In(s.loc)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handlePreview serves the last captured PNG from disk. http.ServeFile
// answers 404 while no capture has been written yet.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, s.cfg.Preview.OutputPath)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

// Error codes of the JSON API.
const (
	codeEmptyTitle        = "empty_title"
	codeInvalidRange      = "invalid_range"
	codeInvalidAttachment = "invalid_attachment"
	codeNotFound          = "not_found"
	codeBadRequest        = "bad_request"
)

type errResp struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errResp{Error: msg, Code: code})
}

// writeStoreError maps store validation errors onto 400/404 responses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	status, code := http.StatusBadRequest, codeBadRequest
	switch {
	case errors.Is(err, store.ErrEmptyTitle):
		code = codeEmptyTitle
	case errors.Is(err, store.ErrInvalidRange):
		code = codeInvalidRange
	case errors.Is(err, store.ErrInvalidAttachment):
		code = codeInvalidAttachment
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, codeNotFound
	default:
		appLog.Error("unexpected store error", err)
		status = http.StatusInternalServerError
		code = "internal"
	}
	s.metrics.Rejection(code)
	writeError(w, status, code, err.Error())
}
