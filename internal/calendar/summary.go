package calendar

import (
	"strings"
	"time"
)

// Reserved summary keys.
const (
	KeyTotal = "__total"
	KeyPause = "__pause"
)

// Summary accumulates durations per key and remembers the order in which
// keys were first seen.
type Summary struct {
	order  []string
	values map[string]time.Duration
}

func newSummary() *Summary {
	return &Summary{values: map[string]time.Duration{}}
}

// Add adds d to key. Empty keys are ignored.
func (s *Summary) Add(key string, d time.Duration) {
	if key == "" {
		return
	}
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] += d
}

// Get returns the accumulated duration for key.
func (s *Summary) Get(key string) (time.Duration, bool) {
	if s == nil {
		return 0, false
	}
	d, ok := s.values[key]
	return d, ok
}

// Millis returns the accumulated duration for key in milliseconds.
func (s *Summary) Millis(key string) int64 {
	d, _ := s.Get(key)
	return d.Milliseconds()
}

// Issues returns the real issue keys in first-encountered order.
func (s *Summary) Issues() []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, k := range s.order {
		if !isReserved(k) {
			out = append(out, k)
		}
	}
	return out
}

// Map returns a copy of the summary as a plain map.
func (s *Summary) Map() map[string]time.Duration {
	out := make(map[string]time.Duration, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Line is one rendered summary row.
type Line struct {
	Key      string
	Label    string
	Duration time.Duration
	Special  bool
}

// Lines returns the summary in display order: total, pause, then issues.
// Total and pause are omitted while zero.
func (s *Summary) Lines() []Line {
	if s == nil {
		return nil
	}
	var lines []Line
	if d := s.values[KeyTotal]; d > 0 {
		lines = append(lines, Line{Key: KeyTotal, Label: "Total", Duration: d, Special: true})
	}
	if d := s.values[KeyPause]; d > 0 {
		lines = append(lines, Line{Key: KeyPause, Label: "Pause", Duration: d, Special: true})
	}
	for _, k := range s.Issues() {
		lines = append(lines, Line{Key: k, Label: k, Duration: s.values[k]})
	}
	return lines
}

func isReserved(key string) bool {
	return strings.HasPrefix(key, "__")
}
