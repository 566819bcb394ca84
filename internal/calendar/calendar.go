// Package calendar folds the event log into day groups with per-issue
// duration summaries.
package calendar

import (
	"slices"
	"time"

	"github.com/Tiliavir/tlog/internal/model"
	"github.com/Tiliavir/tlog/internal/timecalc"
)

// IssuelessColor is the display color of start records without an issue.
const IssuelessColor = "#EACDC1"

// Palette is handed out round-robin to issues in the order they first appear.
var Palette = [8]string{
	"#ABFF73",
	"#FFFF84",
	"#A5FEE3",
	"#FFA4FF",
	"#CACAFF",
	"#FFBB7D",
	"#E6C5B9",
	"#FFBBDD",
}

// Entry is one rendered row of a day. For back entries Issue, Desc and Color
// are those of the resumed record and Resumed holds its type.
type Entry struct {
	Time    time.Time
	Type    model.EventType
	Issue   string
	Desc    string
	Color   string
	Resumed model.EventType
}

// Text returns the row label, e.g. "09:00 FOO-1 - fixing the build".
func (e Entry) Text() string {
	text := timecalc.FormatClock(e.Time)
	if e.Issue != "" {
		text += " " + e.Issue
	}
	if e.Desc != "" {
		if e.Issue != "" {
			text += " -"
		}
		text += " " + e.Desc
	}
	return text
}

// Day groups the entries of one local calendar date.
type Day struct {
	Date    time.Time
	Title   string
	Entries []Entry
	Summary *Summary

	// Open is the record still running at the last entry of the day, if any.
	Open *Entry
	// PausedSince is set when the day ends inside a pause.
	PausedSince time.Time
}

// FirstStart returns the time an issue was first worked on during the day.
func (d Day) FirstStart(issue string) (time.Time, bool) {
	for _, e := range d.Entries {
		if e.Issue != issue {
			continue
		}
		if e.Type == model.TypeStart || e.Resumed == model.TypeStart {
			return e.Time, true
		}
	}
	return time.Time{}, false
}

// Calendar is the derived view of an event log.
type Calendar struct {
	// Days are ordered most recent first.
	Days []Day
	// RecentIssues lists issues most recently used first, without duplicates.
	RecentIssues []string
}

// Day returns the day group for the calendar date of t.
func (c *Calendar) Day(t time.Time) (*Day, bool) {
	for i := range c.Days {
		if timecalc.SameDay(c.Days[i].Date, t.In(c.Days[i].Date.Location())) {
			return &c.Days[i], true
		}
	}
	return nil, false
}

// Aggregate folds events using the local time zone for day boundaries.
func Aggregate(events []model.Event) *Calendar {
	return AggregateIn(events, time.Local)
}

// interval is the record that is open while work is being timed.
type interval struct {
	time  time.Time
	typ   model.EventType
	issue string
	desc  string
	color string
}

func (iv *interval) entry() *Entry {
	return &Entry{Time: iv.time, Type: iv.typ, Issue: iv.issue, Desc: iv.desc, Color: iv.color}
}

// AggregateIn folds events in order. A new day starts whenever an event's
// date in loc differs from the current day's date.
func AggregateIn(events []model.Event, loc *time.Location) *Calendar {
	colors := newColorMap()

	var (
		days       []Day
		cur        *Day
		previous   *interval
		pauseOpen  bool
		pauseStart time.Time
	)

	finish := func() {
		if cur == nil {
			return
		}
		if previous != nil {
			cur.Open = previous.entry()
		}
		if pauseOpen {
			cur.PausedSince = pauseStart
		}
		days = append(days, *cur)
	}

	for _, ev := range events {
		now := ev.Time.In(loc)

		if cur == nil || !timecalc.SameDay(cur.Date, now) {
			finish()
			cur = &Day{
				Date:    timecalc.StartOfDay(now),
				Title:   timecalc.DayTitle(now),
				Summary: newSummary(),
			}
			previous = nil
		}

		entry := Entry{Time: now, Type: ev.Type, Issue: ev.Issue, Desc: ev.Desc}

		switch {
		case ev.Type == model.TypeBack:
			switch {
			case pauseOpen:
				cur.Summary.Add(KeyPause, elapsed(pauseStart, now))
				resumed := interval{typ: model.TypeStart, color: IssuelessColor}
				if previous != nil {
					resumed = *previous
				}
				resumed.time = now
				previous = &resumed
			case previous == nil:
				previous = &interval{time: now, typ: model.TypeStart, color: IssuelessColor}
			}
			entry.Issue = previous.issue
			entry.Desc = previous.desc
			entry.Color = previous.color
			entry.Resumed = previous.typ

		case pauseOpen:
			cur.Summary.Add(KeyPause, elapsed(pauseStart, now))

		case previous != nil:
			d := elapsed(previous.time, now)
			cur.Summary.Add(previous.issue, d)
			cur.Summary.Add(KeyTotal, d)
		}

		pauseOpen = ev.Type.IsPause()
		if pauseOpen {
			pauseStart = now
		}

		if ev.Type == model.TypeStart {
			entry.Color = colors.colorFor(ev.Issue)
		}
		if ev.Type != model.TypeBack && !pauseOpen {
			previous = &interval{time: now, typ: ev.Type, issue: ev.Issue, desc: ev.Desc, color: entry.Color}
		}

		cur.Entries = append(cur.Entries, entry)
	}
	finish()

	slices.Reverse(days)
	return &Calendar{
		Days:         days,
		RecentIssues: RecentIssues(events),
	}
}

// elapsed clamps durations of out-of-order events to zero.
func elapsed(from, to time.Time) time.Duration {
	if d := to.Sub(from); d > 0 {
		return d
	}
	return 0
}

// RecentIssues returns the issues of events, most recently used first and
// without duplicates.
func RecentIssues(events []model.Event) []string {
	seen := map[string]bool{}
	var out []string
	for i := len(events) - 1; i >= 0; i-- {
		issue := events[i].Issue
		if issue == "" || seen[issue] {
			continue
		}
		seen[issue] = true
		out = append(out, issue)
	}
	return out
}

type colorMap struct {
	next    int
	byIssue map[string]string
}

func newColorMap() *colorMap {
	return &colorMap{byIssue: map[string]string{}}
}

func (c *colorMap) colorFor(issue string) string {
	if issue == "" {
		return IssuelessColor
	}
	if color, ok := c.byIssue[issue]; ok {
		return color
	}
	color := Palette[c.next]
	c.next = (c.next + 1) % len(Palette)
	c.byIssue[issue] = color
	return color
}
