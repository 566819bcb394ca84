package model

import (
	"fmt"
	"time"
)

// EventType is the kind of a recorded event.
type EventType string

const (
	TypeStart EventType = "start"
	TypeAway  EventType = "away"
	TypeBack  EventType = "back"
	TypeOut   EventType = "out"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case TypeStart, TypeAway, TypeBack, TypeOut:
		return true
	}
	return false
}

// IsPause reports whether t opens a pause.
func (t EventType) IsPause() bool {
	return t == TypeAway
}

// Event is a single timestamped entry in the event log.
type Event struct {
	Time  time.Time `json:"time"`
	Type  EventType `json:"type"`
	Issue string    `json:"issue,omitempty"`
	Desc  string    `json:"desc,omitempty"`
}

// Validate checks the invariants every stored event must satisfy.
func (e Event) Validate() error {
	if e.Time.IsZero() {
		return fmt.Errorf("event has no time")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if (e.Type == TypeAway || e.Type == TypeBack) && (e.Issue != "" || e.Desc != "") {
		return fmt.Errorf("%s event cannot carry an issue or description", e.Type)
	}
	return nil
}
