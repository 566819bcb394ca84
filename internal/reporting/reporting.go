// Package reporting pushes a finished time entry to an external system by
// expanding a user-defined URL template and opening the result.
//
// Template placeholders:
//
//	{#}       issue id
//	{@sec}    elapsed seconds
//	{@start}  start of the work as an RFC 3339 timestamp
//
// Templates without any braced placeholder use the legacy form, where the
// first bare # is the issue and the first bare @ the seconds. Every value is
// escaped as a URI component.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoReportURL is returned by Dispatch when no template is configured.
var ErrNoReportURL = errors.New("no report URL configured")

// Placeholders recognised in a template.
const (
	PlaceholderIssue   = "{#}"
	PlaceholderSeconds = "{@sec}"
	PlaceholderStart   = "{@start}"
)

// TemplateStore holds the report URL template.
type TemplateStore interface {
	// Template returns the configured template, or "" when none is set.
	Template() (string, error)
	SetTemplate(url string) error
}

// Opener hands an expanded URL to whatever performs the report.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, url string) error

// Open implements Opener.
func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// Dispatcher expands the stored template and opens the result.
type Dispatcher struct {
	Templates TemplateStore
	Opener    Opener
}

// Dispatch reports elapsedSeconds of work on issue that began at start.
// It returns ErrNoReportURL without side effects when no template is set.
func (d *Dispatcher) Dispatch(ctx context.Context, issue string, elapsedSeconds int64, start time.Time) error {
	tmpl, err := d.Templates.Template()
	if err != nil {
		return fmt.Errorf("reading report URL: %w", err)
	}
	if tmpl == "" {
		return ErrNoReportURL
	}
	target := Expand(tmpl, issue, elapsedSeconds, start)
	if err := d.Opener.Open(ctx, target); err != nil {
		return fmt.Errorf("opening report URL: %w", err)
	}
	return nil
}

// SetTemplate persists a new template.
func (d *Dispatcher) SetTemplate(url string) error {
	return d.Templates.SetTemplate(url)
}

// Expand substitutes the placeholders of tmpl.
func Expand(tmpl, issue string, elapsedSeconds int64, start time.Time) string {
	secs := strconv.FormatInt(elapsedSeconds, 10)
	if !hasBracedPlaceholder(tmpl) {
		out := strings.Replace(tmpl, "#", escape(issue), 1)
		return strings.Replace(out, "@", secs, 1)
	}

	var startText string
	if !start.IsZero() {
		startText = start.Format(time.RFC3339)
	}
	return strings.NewReplacer(
		PlaceholderIssue, escape(issue),
		PlaceholderSeconds, secs,
		PlaceholderStart, escape(startText),
	).Replace(tmpl)
}

func hasBracedPlaceholder(tmpl string) bool {
	return strings.Contains(tmpl, PlaceholderIssue) ||
		strings.Contains(tmpl, PlaceholderSeconds) ||
		strings.Contains(tmpl, PlaceholderStart)
}

// escape encodes s as a URI component: spaces become %20, not +.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
