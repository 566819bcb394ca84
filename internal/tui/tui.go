// Package tui provides the interactive prompt: the typed line is validated
// on every keystroke and committed on enter, while the calendar above it
// follows the event log.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/tlog/internal/calendar"
	"github.com/Tiliavir/tlog/internal/command"
	"github.com/Tiliavir/tlog/internal/render"
	"github.com/Tiliavir/tlog/internal/timecalc"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	validStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Service is what the prompt needs from the tracker.
type Service interface {
	Check(line string) (command.Result, error)
	Submit(ctx context.Context, line string) (command.Command, error)
	Calendar(ctx context.Context) (*calendar.Calendar, error)
	Now() time.Time
}

// Verdict classifies the line currently typed.
type Verdict int

const (
	VerdictEmpty Verdict = iota
	VerdictIncomplete
	VerdictValid
	VerdictExpanded
	VerdictInvalid
)

// Model is the Bubble Tea model of the prompt.
type Model struct {
	ctx context.Context
	svc Service

	input    textinput.Model
	viewport viewport.Model
	styles   *render.Styles

	cal       *calendar.Calendar
	recentIdx int

	verdict Verdict
	message string
	err     error

	width    int
	height   int
	quitting bool
}

// Message types
type calendarMsg struct {
	cal *calendar.Calendar
	err error
}

type submittedMsg struct {
	line string
	cmd  command.Command
	err  error
}

// New creates the prompt model.
func New(ctx context.Context, svc Service) Model {
	ti := textinput.New()
	ti.Placeholder = "S fixing the build #FOO-1 @9:00"
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	vp := viewport.New(80, 20)

	return Model{
		ctx:      ctx,
		svc:      svc,
		input:    ti,
		viewport: vp,
		styles:   render.NewStyles(os.Stdout, true),
	}
}

// Run starts the prompt on the terminal and blocks until the user quits.
func Run(ctx context.Context, svc Service) error {
	p := tea.NewProgram(New(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init loads the calendar.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCalendar())
}

func (m Model) loadCalendar() tea.Cmd {
	return func() tea.Msg {
		cal, err := m.svc.Calendar(m.ctx)
		return calendarMsg{cal: cal, err: err}
	}
}

func (m Model) submit(line string) tea.Cmd {
	return func() tea.Msg {
		cmd, err := m.svc.Submit(m.ctx, line)
		return submittedMsg{line: line, cmd: cmd, err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 1)
		m.viewport.SetContent(m.calendarView())
		return m, nil

	case calendarMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.cal = msg.cal
		m.recentIdx = 0
		m.viewport.SetContent(m.calendarView())
		return m, nil

	case submittedMsg:
		if msg.err != nil {
			m.verdict = VerdictInvalid
			m.message = msg.err.Error()
			return m, nil
		}
		m.input.SetValue("")
		m.verdict = VerdictEmpty
		m.message = "saved: " + msg.line
		return m, m.loadCalendar()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := m.input.Value()
			if strings.TrimSpace(line) == "" {
				return m, nil
			}
			return m, m.submit(line)
		case "@":
			if !strings.Contains(m.input.Value(), "@") {
				m.setLine(m.input.Value() + "@" + timecalc.FormatClock(m.svc.Now()))
				return m, nil
			}
		case "up":
			m.setLine(timecalc.NudgeTimeSpec(m.input.Value(), 1))
			return m, nil
		case "down":
			m.setLine(timecalc.NudgeTimeSpec(m.input.Value(), -1))
			return m, nil
		case "tab":
			m.cycleIssue()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.check()
	return m, cmd
}

func (m *Model) setLine(line string) {
	m.input.SetValue(line)
	m.input.CursorEnd()
	m.check()
}

// check classifies the typed line.
func (m *Model) check() {
	line := m.input.Value()
	if line == "" {
		m.verdict = VerdictEmpty
		m.message = ""
		return
	}
	res, err := m.svc.Check(line)
	switch {
	case err != nil:
		m.verdict = VerdictInvalid
		m.message = err.Error()
	case res.Expanded:
		m.verdict = VerdictExpanded
		m.message = "alias: " + res.Text
	case !res.Complete():
		m.verdict = VerdictIncomplete
		m.message = "..."
	default:
		m.verdict = VerdictValid
		m.message = "ok"
	}
}

func (m *Model) cycleIssue() {
	if m.cal == nil || len(m.cal.RecentIssues) == 0 {
		return
	}
	issue := m.cal.RecentIssues[m.recentIdx%len(m.cal.RecentIssues)]
	m.recentIdx++
	m.setLine(WithIssue(m.input.Value(), issue))
}

var issueToken = regexp.MustCompile(`#[^\s@]*`)

// WithIssue puts issue into line, replacing an issue already present. A new
// issue goes before the time specifier.
func WithIssue(line, issue string) string {
	if loc := issueToken.FindStringIndex(line); loc != nil {
		return line[:loc[0]] + "#" + issue + line[loc[1]:]
	}
	if at := strings.IndexByte(line, '@'); at >= 0 {
		head := strings.TrimRight(line[:at], " ")
		return head + " #" + issue + " " + line[at:]
	}
	if line != "" && !strings.HasSuffix(line, " ") {
		line += " "
	}
	return line + "#" + issue + " "
}

func (m Model) calendarView() string {
	if m.cal == nil || len(m.cal.Days) == 0 {
		return pendingStyle.Render("No entries yet. Try: S working #FOO-1 @9:00")
	}
	var b strings.Builder
	for i, day := range m.cal.Days {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(render.Day(m.styles, day))
	}
	return b.String()
}

// Verdict returns the classification of the current line.
func (m Model) Verdict() Verdict { return m.verdict }

// Line returns the current input.
func (m Model) Line() string { return m.input.Value() }

// View renders the prompt.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("tlog"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch m.verdict {
	case VerdictValid, VerdictExpanded:
		b.WriteString(validStyle.Render(m.message))
	case VerdictInvalid:
		b.WriteString(errorStyle.Render(m.message))
	default:
		b.WriteString(pendingStyle.Render(m.message))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter save | @ now | up/down +-1 min | tab recent issue | pgup/pgdown scroll | esc quit"))
	return b.String()
}
