// Package render draws calendars, summaries and help text for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Tiliavir/tlog/internal/calendar"
	"github.com/Tiliavir/tlog/internal/model"
	"github.com/Tiliavir/tlog/internal/timecalc"
)

// Options controls terminal output.
type Options struct {
	// Color enables background colors on entry rows.
	Color bool
}

// SummaryLine formats one summary row, e.g. "FOO-1 - 7h 55m".
func SummaryLine(l calendar.Line) string {
	return l.Label + " - " + timecalc.FormatDuration(l.Duration)
}

// EntryLabel is the row text of an entry including a marker for non-start
// records, e.g. "11:15 [away]".
func EntryLabel(e calendar.Entry) string {
	label := e.Text()
	if e.Type != model.TypeStart {
		label += " [" + string(e.Type) + "]"
	}
	return label
}

// Styles holds the lipgloss styles bound to one output.
type Styles struct {
	color    bool
	title    lipgloss.Style
	special  lipgloss.Style
	renderer *lipgloss.Renderer
}

// NewStyles binds styles to w so color detection follows that writer.
func NewStyles(w io.Writer, color bool) *Styles {
	r := lipgloss.NewRenderer(w)
	return &Styles{
		color:    color,
		renderer: r,
		title:    r.NewStyle().Bold(true),
		special:  r.NewStyle().Faint(true),
	}
}

// Entry renders an entry row, tinted with its display color.
func (s *Styles) Entry(e calendar.Entry) string {
	label := EntryLabel(e)
	if !s.color || e.Color == "" {
		return label
	}
	return s.renderer.NewStyle().
		Background(lipgloss.Color(e.Color)).
		Foreground(lipgloss.Color("#000000")).
		Padding(0, 1).
		Render(label)
}

// Title renders a day heading.
func (s *Styles) Title(title string) string {
	if !s.color {
		return title
	}
	return s.title.Render(title)
}

// Line renders a summary row; total and pause are dimmed.
func (s *Styles) Line(l calendar.Line) string {
	text := SummaryLine(l)
	if s.color && l.Special {
		return s.special.Render(text)
	}
	return text
}

// Calendar writes every day of cal, most recent first.
func Calendar(w io.Writer, cal *calendar.Calendar, opts Options) error {
	if len(cal.Days) == 0 {
		_, err := fmt.Fprintln(w, "No entries found.")
		return err
	}
	styles := NewStyles(w, opts.Color)
	for i, day := range cal.Days {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, Day(styles, day)); err != nil {
			return err
		}
	}
	return nil
}

// Day renders one day group: heading, entries, then the summary.
func Day(styles *Styles, day calendar.Day) string {
	var b strings.Builder
	b.WriteString(styles.Title(day.Title))
	b.WriteByte('\n')
	for _, e := range day.Entries {
		b.WriteString("  ")
		b.WriteString(styles.Entry(e))
		b.WriteByte('\n')
	}
	if lines := day.Summary.Lines(); len(lines) > 0 {
		b.WriteString("  ---\n")
		for _, l := range lines {
			b.WriteString("  ")
			b.WriteString(styles.Line(l))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// SummaryTable writes the summary of day as a bordered table.
func SummaryTable(w io.Writer, day calendar.Day) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(day.Title)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Issue", "Time", "Seconds"})

	lines := day.Summary.Lines()
	for _, l := range lines {
		tw.AppendRow(table.Row{l.Label, timecalc.FormatDuration(l.Duration), int64(l.Duration.Seconds())})
	}
	if len(lines) == 0 {
		tw.AppendRow(table.Row{"(nothing tracked)", timecalc.FormatDuration(0), 0})
	}
	tw.Render()
}
