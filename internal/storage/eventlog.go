package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Tiliavir/tlog/internal/model"
)

// EventLog is the ordered, append-only record of events.
type EventLog interface {
	// Events returns every stored event in submission order.
	Events(ctx context.Context) ([]model.Event, error)
	// Append validates and stores e after all existing events.
	Append(ctx context.Context, e model.Event) error
	Close() error
}

// Visible returns the events strictly after since, keeping their order.
func Visible(events []model.Event, since time.Time) []model.Event {
	var out []model.Event
	for _, e := range events {
		if e.Time.After(since) {
			out = append(out, e)
		}
	}
	return out
}

// normalize stores instants in UTC at minute precision.
func normalize(e model.Event) model.Event {
	t := e.Time.UTC()
	e.Time = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return e
}

// JSONLog keeps the whole log in one JSON array that is rewritten on every
// append. The file is read lazily on first access.
type JSONLog struct {
	path   string
	events []model.Event
	loaded bool
}

// NewJSONLog returns a log stored at <base>/timedb.json.
func NewJSONLog(base string) *JSONLog {
	return &JSONLog{path: filepath.Join(base, EventsFile)}
}

func (l *JSONLog) load() error {
	if l.loaded {
		return nil
	}
	var events []model.Event
	if _, err := loadJSON(l.path, &events); err != nil {
		return err
	}
	l.events = events
	l.loaded = true
	return nil
}

// Events implements EventLog.
func (l *JSONLog) Events(_ context.Context) ([]model.Event, error) {
	if err := l.load(); err != nil {
		return nil, err
	}
	out := make([]model.Event, len(l.events))
	copy(out, l.events)
	return out, nil
}

// Append implements EventLog.
func (l *JSONLog) Append(_ context.Context, e model.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("refusing to store event: %w", err)
	}
	if err := l.load(); err != nil {
		return err
	}

	events := append(l.events[:len(l.events):len(l.events)], normalize(e))
	if err := saveJSON(l.path, events); err != nil {
		return err
	}
	l.events = events
	return nil
}

// Close implements EventLog.
func (l *JSONLog) Close() error { return nil }

// Event log backends selectable in the config file.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// OpenEventLog opens the event log of the given backend inside base.
func OpenEventLog(ctx context.Context, base, backend string) (EventLog, error) {
	switch backend {
	case "", BackendJSON:
		return NewJSONLog(base), nil
	case BackendSQLite:
		return OpenSQLiteLog(ctx, base)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", backend, BackendJSON, BackendSQLite)
	}
}
