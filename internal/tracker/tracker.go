// Package tracker ties the command parser, the stores, the calendar and the
// report dispatcher together. Commands never touch storage directly.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Tiliavir/tlog/internal/calendar"
	"github.com/Tiliavir/tlog/internal/command"
	"github.com/Tiliavir/tlog/internal/logging"
	"github.com/Tiliavir/tlog/internal/model"
	"github.com/Tiliavir/tlog/internal/storage"
	"github.com/Tiliavir/tlog/internal/timecalc"
)

var (
	// ErrStorage marks failures of the underlying files or database.
	ErrStorage = errors.New("storage error")
	// ErrNotTracked is returned when a report is requested for an issue
	// that has no time on the given day.
	ErrNotTracked = errors.New("issue has no tracked time")
)

// DefaultWindowDays is the number of past days visible besides today.
const DefaultWindowDays = 7

// AliasTable is the persistent alias mapping.
type AliasTable interface {
	command.AliasLookup
	SetOrDelete(name, expansion string) error
	List() (map[string]string, error)
}

// Reporter sends a report and stores the report URL template.
type Reporter interface {
	Dispatch(ctx context.Context, issue string, elapsedSeconds int64, start time.Time) error
	SetTemplate(url string) error
}

// Options configures a Tracker.
type Options struct {
	Log        storage.EventLog
	Aliases    AliasTable
	Reports    Reporter
	Now        func() time.Time
	Location   *time.Location
	WindowDays int
	Logger     *log.Logger
}

// Tracker is the application service behind every user surface.
type Tracker struct {
	log        storage.EventLog
	aliases    AliasTable
	reports    Reporter
	parser     *command.Parser
	now        func() time.Time
	loc        *time.Location
	windowDays int
	logger     *log.Logger
}

// New returns a Tracker. Zero options fall back to the local clock, the
// local time zone and the default window.
func New(opts Options) *Tracker {
	t := &Tracker{
		log:        opts.Log,
		aliases:    opts.Aliases,
		reports:    opts.Reports,
		now:        opts.Now,
		loc:        opts.Location,
		windowDays: opts.WindowDays,
		logger:     opts.Logger,
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.loc == nil {
		t.loc = time.Local
	}
	if t.windowDays <= 0 {
		t.windowDays = DefaultWindowDays
	}
	if t.logger == nil {
		t.logger = logging.Discard()
	}
	t.parser = &command.Parser{Aliases: t.aliases, Now: t.localNow}
	return t
}

func (t *Tracker) localNow() time.Time {
	return t.now().In(t.loc)
}

// Check validates line as it is being typed.
func (t *Tracker) Check(line string) (command.Result, error) {
	return t.parse(line, false)
}

// parse marks failures that are not about the input itself as storage errors.
func (t *Tracker) parse(line string, commit bool) (command.Result, error) {
	res, err := t.parser.Parse(line, commit)
	if err != nil && !errors.Is(err, command.ErrInvalid) && !errors.Is(err, command.ErrIncomplete) {
		return res, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return res, err
}

// Submit parses line in commit mode and performs its side effect exactly once.
func (t *Tracker) Submit(ctx context.Context, line string) (command.Command, error) {
	res, err := t.parse(line, true)
	if err != nil {
		return nil, err
	}

	switch c := res.Command.(type) {
	case command.TimeEntry:
		if err := t.log.Append(ctx, c.Event()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		t.logger.Info("event stored", "type", c.Type, "issue", c.Issue, "time", c.Time.Format(time.RFC3339))
	case command.AliasDefinition:
		if err := t.aliases.SetOrDelete(c.Alias, c.Expansion); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		t.logger.Info("alias saved", "alias", c.Alias, "deleted", c.Deletes())
	case command.ReportURLDefinition:
		if err := t.reports.SetTemplate(c.URL); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		t.logger.Info("report URL saved", "url", c.URL)
	}
	return res.Command, nil
}

// SetAlias defines or, with an empty expansion, deletes an alias directly.
func (t *Tracker) SetAlias(name, expansion string) error {
	if len(name) < command.MinAliasLength {
		return &command.SyntaxError{Input: name, Reason: fmt.Sprintf("alias must have at least %d characters", command.MinAliasLength)}
	}
	if err := t.aliases.SetOrDelete(name, expansion); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// Aliases returns a snapshot of the alias table.
func (t *Tracker) Aliases() (map[string]string, error) {
	aliases, err := t.aliases.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return aliases, nil
}

// SetWindowDays changes the number of past days shown. Values below one are
// ignored.
func (t *Tracker) SetWindowDays(days int) {
	if days > 0 {
		t.windowDays = days
	}
}

// WindowStart is the instant after which events are visible.
func (t *Tracker) WindowStart() time.Time {
	return timecalc.WindowStart(t.localNow(), t.windowDays)
}

// Events returns the whole event log.
func (t *Tracker) Events(ctx context.Context) ([]model.Event, error) {
	events, err := t.log.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return events, nil
}

// Visible returns the events inside the visibility window.
func (t *Tracker) Visible(ctx context.Context) ([]model.Event, error) {
	events, err := t.Events(ctx)
	if err != nil {
		return nil, err
	}
	return storage.Visible(events, t.WindowStart()), nil
}

// Calendar aggregates the visible window.
func (t *Tracker) Calendar(ctx context.Context) (*calendar.Calendar, error) {
	events, err := t.Visible(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.AggregateIn(events, t.loc), nil
}

// Report dispatches a report with explicit values.
func (t *Tracker) Report(ctx context.Context, issue string, elapsedSeconds int64, start time.Time) error {
	if err := t.reports.Dispatch(ctx, issue, elapsedSeconds, start); err != nil {
		return err
	}
	t.logger.Info("report dispatched", "issue", issue, "seconds", elapsedSeconds)
	return nil
}

// ReportSummary is what ReportIssue sent.
type ReportSummary struct {
	Issue   string
	Seconds int64
	Start   time.Time
}

// ReportIssue reports the time tracked on issue during the day of date.
func (t *Tracker) ReportIssue(ctx context.Context, issue string, date time.Time) (ReportSummary, error) {
	cal, err := t.Calendar(ctx)
	if err != nil {
		return ReportSummary{}, err
	}
	day, ok := cal.Day(date.In(t.loc))
	if !ok {
		return ReportSummary{}, fmt.Errorf("%w: %s on %s", ErrNotTracked, issue, timecalc.DayTitle(date.In(t.loc)))
	}
	d, ok := day.Summary.Get(issue)
	if !ok {
		return ReportSummary{}, fmt.Errorf("%w: %s on %s", ErrNotTracked, issue, day.Title)
	}

	sum := ReportSummary{Issue: issue, Seconds: int64(d / time.Second)}
	sum.Start, _ = day.FirstStart(issue)
	if err := t.Report(ctx, issue, sum.Seconds, sum.Start); err != nil {
		return ReportSummary{}, err
	}
	return sum, nil
}

// RecentIssues returns the issues of the visible window, most recent first.
func (t *Tracker) RecentIssues(ctx context.Context) ([]string, error) {
	events, err := t.Visible(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.RecentIssues(events), nil
}

// Now returns the tracker's current local time.
func (t *Tracker) Now() time.Time { return t.localNow() }

// Close releases the event log.
func (t *Tracker) Close() error { return t.log.Close() }
