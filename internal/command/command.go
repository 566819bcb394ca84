// Package command parses the single-line command language:
//
//	S|A|B|O [desc] [#issue] @<time>   time entries
//	D <alias> <expansion>             alias definitions
//	R <url>                           report URL template
package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tiliavir/tlog/internal/model"
)

var (
	// ErrInvalid marks input that violates the grammar.
	ErrInvalid = errors.New("invalid command")
	// ErrIncomplete marks input that is still being typed. Only commit-mode
	// parsing reports it; live mode passes such input through.
	ErrIncomplete = errors.New("incomplete command")
)

// SyntaxError describes why a line was rejected.
type SyntaxError struct {
	Input  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Input, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrInvalid }

func invalid(input, format string, args ...any) error {
	return &SyntaxError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// Command is one of TimeEntry, AliasDefinition or ReportURLDefinition.
type Command interface {
	isCommand()
}

// TimeEntry records a start, away, back or out event.
type TimeEntry struct {
	Type  model.EventType
	Issue string
	Desc  string
	Time  time.Time
}

// Event converts the entry into the record appended to the event log.
func (e TimeEntry) Event() model.Event {
	return model.Event{Time: e.Time, Type: e.Type, Issue: e.Issue, Desc: e.Desc}
}

// AliasDefinition sets an alias, or deletes it when Expansion is empty.
type AliasDefinition struct {
	Alias     string
	Expansion string
}

// Deletes reports whether the definition removes the alias.
func (d AliasDefinition) Deletes() bool { return d.Expansion == "" }

// ReportURLDefinition replaces the report URL template.
type ReportURLDefinition struct {
	URL string
}

func (TimeEntry) isCommand()           {}
func (AliasDefinition) isCommand()     {}
func (ReportURLDefinition) isCommand() {}

// Result is the outcome of a successful parse.
type Result struct {
	// Text is the accepted line. In live mode an alias match yields its expansion.
	Text string
	// Expanded is set when Text is an alias expansion returned without validation.
	Expanded bool
	// Command is nil when the line is incomplete (live mode only).
	Command Command
}

// Complete reports whether the result carries a fully parsed command.
func (r Result) Complete() bool { return r.Command != nil }
