// Package store holds the calendar's events in memory. The store is the only
// owner of the collection; callers receive copies and request changes through
// Add, Edit and Delete.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gridcal/internal/model"
)

var (
	ErrEmptyTitle        = errors.New("event title is empty")
	ErrInvalidRange      = errors.New("event end is before its start")
	ErrInvalidAttachment = errors.New("attachment type must be image, video or document")
	ErrNotFound          = errors.New("event not found")
)

// Validate checks the rules every stored event satisfies.
func Validate(e model.CalendarEvent) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return ErrEmptyTitle
	case e.End.Before(e.Start):
		return ErrInvalidRange
	}
	for i, a := range e.Attachments {
		if !a.Type.Valid() {
			return fmt.Errorf("attachment %d (%q): %w", i, a.Name, ErrInvalidAttachment)
		}
	}
	return nil
}

// Store is an ordered, in-memory event collection safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	events []model.CalendarEvent
	newID  func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator, mostly for tests.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) {
		s.newID = f
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		events: make([]model.CalendarEvent, 0),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates e, gives it a fresh ID and appends it. Any ID already set on
// e is ignored.
func (s *Store) Add(e model.CalendarEvent) (model.CalendarEvent, error) {
	if err := Validate(e); err != nil {
		return model.CalendarEvent{}, fmt.Errorf("(*Store).Add: %w", err)
	}
	e = e.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.newID()
	s.events = append(s.events, e)
	return e.Clone(), nil
}

// Edit replaces the event stored under id with e. The ID is kept and the
// position in the collection does not change. On error nothing changes.
func (s *Store) Edit(id string, e model.CalendarEvent) (model.CalendarEvent, error) {
	if err := Validate(e); err != nil {
		return model.CalendarEvent{}, fmt.Errorf("(*Store).Edit: %w", err)
	}
	e = e.Clone()
	e.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.CalendarEvent{}, fmt.Errorf("(*Store).Edit: %q: %w", id, ErrNotFound)
	}
	s.events[i] = e
	return e.Clone(), nil
}

// Delete removes the event with the given id. Deleting an unknown id is a
// no-op; the return value reports whether something was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	return true
}

// Get returns a copy of the event with the given id.
func (s *Store) Get(id string) (model.CalendarEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.CalendarEvent{}, false
	}
	return s.events[i].Clone(), true
}

// Events returns a snapshot of the collection in insertion order.
func (s *Store) Events() []model.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CalendarEvent, len(s.events))
	for i, e := range s.events {
		out[i] = e.Clone()
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// caller holds s.mu
func (s *Store) indexOf(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}
