package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	appLog "gridcal/internal/log"
	"gridcal/internal/model"
)

// Adder is the part of the event store the loader needs.
type Adder interface {
	Add(model.CalendarEvent) (model.CalendarEvent, error)
}

// Loader reads a seed calendar once, from a local path or an http(s) URL.
// There is no caching or periodic refresh.
type Loader struct {
	client *http.Client
}

func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Read returns the raw ICS payload behind location.
func (l *Loader) Read(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, errors.New("seed location is empty")
	}
	if !isURL(location) {
		body, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar")

	appLog.Info("ics fetch start", "url", redactURL(location))
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", redactURL(location), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", redactURL(location), resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	appLog.Info("ics fetch completed", "url", redactURL(location), "bytes", len(body))
	return body, nil
}

// Seed imports location into dst. Events the store rejects are logged and
// skipped; the count of accepted events is returned.
func (l *Loader) Seed(ctx context.Context, location string, loc *time.Location, dst Adder) (int, error) {
	body, err := l.Read(ctx, location)
	if err != nil {
		return 0, err
	}
	events, err := Import(bytes.NewReader(body), loc)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, e := range events {
		if _, err := dst.Add(e); err != nil {
			appLog.Warn("ics event rejected", "title", e.Title, "error", err)
			continue
		}
		added++
	}
	return added, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// redactURL keeps scheme and host so tokens in paths or queries never reach
// the log.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "ics://...(redacted)"
	}
	if u.Path == "" || u.Path == "/" {
		return u.Scheme + "://" + u.Host
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
