package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Tiliavir/tlog/internal/model"
)

// MinAliasLength keeps aliases from colliding with the single-letter prefixes.
const MinAliasLength = 2

// AliasLookup resolves alias names to their expansions.
type AliasLookup interface {
	Get(name string) (string, bool, error)
}

// Parser turns command lines into commands. It has no side effects.
type Parser struct {
	Aliases AliasLookup
	// Now supplies "today" for time specifiers without a date. Defaults to time.Now.
	Now func() time.Time
}

// NewParser returns a parser resolving aliases through aliases.
func NewParser(aliases AliasLookup) *Parser {
	return &Parser{Aliases: aliases, Now: time.Now}
}

var entryTypes = map[byte]model.EventType{
	'S': model.TypeStart,
	'A': model.TypeAway,
	'B': model.TypeBack,
	'O': model.TypeOut,
}

// Parse parses one line. With commit false (live mode) input that is still
// being typed is accepted and echoed back without a Command; with commit true
// the line must be complete.
func (p *Parser) Parse(line string, commit bool) (Result, error) {
	if line == "" {
		return incomplete(line, commit)
	}

	if name := strings.TrimSpace(line); name != "" && !strings.ContainsFunc(name, unicode.IsSpace) && p.Aliases != nil {
		expansion, ok, err := p.Aliases.Get(name)
		if err != nil {
			return Result{}, fmt.Errorf("looking up alias %q: %w", name, err)
		}
		if ok {
			if !commit {
				return Result{Text: expansion, Expanded: true}, nil
			}
			line = expansion
			if line == "" {
				return incomplete(line, commit)
			}
		}
	}

	switch line[0] {
	case 'D':
		return parseDefine(line, commit)
	case 'R':
		return parseReportURL(line, commit)
	}
	return p.parseTimeEntry(line, commit)
}

func incomplete(line string, commit bool) (Result, error) {
	if commit {
		return Result{}, fmt.Errorf("%w: %q", ErrIncomplete, line)
	}
	return Result{Text: line}, nil
}

// checkPrefix validates the "<letter> " prefix shared by every production.
// When ok is false the caller returns res and err unchanged.
func checkPrefix(line string, commit bool) (res Result, ok bool, err error) {
	if len(line) == 1 || len(line) == 2 && line[1] == ' ' {
		res, err = incomplete(line, commit)
		return res, false, err
	}
	if line[1] != ' ' {
		return Result{}, false, invalid(line, "expected a space after %q", line[:1])
	}
	return Result{}, true, nil
}

func parseDefine(line string, commit bool) (Result, error) {
	if res, ok, err := checkPrefix(line, commit); !ok {
		return res, err
	}

	aliasEnd := indexFrom(line, ' ', 2)
	if aliasEnd < 0 {
		return incomplete(line, commit)
	}
	alias := strings.TrimSpace(line[2:aliasEnd])
	if len(alias) < MinAliasLength {
		return Result{}, invalid(line, "alias must have at least %d characters", MinAliasLength)
	}

	def := AliasDefinition{
		Alias:     alias,
		Expansion: strings.TrimSpace(line[aliasEnd:]),
	}
	return Result{Text: line, Command: def}, nil
}

func parseReportURL(line string, commit bool) (Result, error) {
	if res, ok, err := checkPrefix(line, commit); !ok {
		return res, err
	}

	fields := strings.Fields(line[2:])
	switch {
	case len(fields) == 0:
		return incomplete(line, commit)
	case len(fields) > 1:
		return Result{}, invalid(line, "report URL must not contain whitespace")
	}

	url := fields[0]
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if strings.HasPrefix("http://", lower) || strings.HasPrefix("https://", lower) {
			return incomplete(line, commit)
		}
		return Result{}, invalid(line, "report URL must start with http:// or https://")
	}
	if !strings.Contains(url, "#") || !strings.Contains(url, "@") {
		if !commit {
			return Result{Text: line}, nil
		}
		return Result{}, invalid(line, "report URL needs an issue placeholder (#) and a time placeholder (@)")
	}

	return Result{Text: line, Command: ReportURLDefinition{URL: url}}, nil
}

func (p *Parser) parseTimeEntry(line string, commit bool) (Result, error) {
	typ, ok := entryTypes[line[0]]
	if !ok {
		return Result{}, invalid(line, "unknown command %q", line[:1])
	}
	if res, ok, err := checkPrefix(line, commit); !ok {
		return res, err
	}

	issueIdx := indexFrom(line, '#', 2)
	timeIdx := indexFrom(line, '@', 2)
	if timeIdx < 0 {
		return incomplete(line, commit)
	}
	if issueIdx > timeIdx {
		return Result{}, invalid(line, "issue (#) must come before time (@)")
	}

	descEnd := timeIdx
	if issueIdx >= 0 {
		descEnd = issueIdx
	}
	entry := TimeEntry{
		Type: typ,
		Desc: strings.TrimSpace(line[2:descEnd]),
	}
	if issueIdx >= 0 {
		entry.Issue = strings.TrimSpace(line[issueIdx+1 : timeIdx])
		if strings.ContainsFunc(entry.Issue, unicode.IsSpace) {
			return Result{}, invalid(line, "issue %q must not contain whitespace", entry.Issue)
		}
	}

	spec := strings.TrimSpace(line[timeIdx+1:])
	if spec == "" {
		return incomplete(line, commit)
	}
	t, err := p.parseTime(spec)
	if err != nil {
		return Result{}, invalid(line, "%v", err)
	}
	entry.Time = t

	if typ == model.TypeAway || typ == model.TypeBack {
		entry.Issue = ""
		entry.Desc = ""
	}

	return Result{Text: line, Command: entry}, nil
}

var (
	clockSpec = regexp.MustCompile(`^(\d|[0-2]\d):([0-5]\d)$`)
	dateSpec  = regexp.MustCompile(`^(\d{4})-([0-1]\d)-([0-3]\d) (\d|[0-2]\d):([0-5]\d)$`)
)

// parseTime accepts "H:MM", "HH:MM" (today) and "YYYY-MM-DD HH:MM".
// Out-of-range days such as Feb 30 roll over into the next month.
func (p *Parser) parseTime(spec string) (time.Time, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	today := now()

	if groups := clockSpec.FindStringSubmatch(spec); groups != nil {
		hour, minute := atoi(groups[1]), atoi(groups[2])
		if hour > 23 {
			return time.Time{}, fmt.Errorf("hour %d out of range", hour)
		}
		return time.Date(today.Year(), today.Month(), today.Day(), hour, minute, 0, 0, today.Location()), nil
	}

	groups := dateSpec.FindStringSubmatch(spec)
	if groups == nil {
		return time.Time{}, fmt.Errorf("malformed time %q, want HH:MM or YYYY-MM-DD HH:MM", spec)
	}
	year, month, day := atoi(groups[1]), atoi(groups[2]), atoi(groups[3])
	hour, minute := atoi(groups[4]), atoi(groups[5])
	switch {
	case month < 1 || month > 12:
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	case day < 1 || day > 31:
		return time.Time{}, fmt.Errorf("day %d out of range", day)
	case hour > 23:
		return time.Time{}, fmt.Errorf("hour %d out of range", hour)
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, today.Location()), nil
}

// atoi is only called on regexp-validated digit groups.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func indexFrom(s string, c byte, from int) int {
	if from >= len(s) {
		return -1
	}
	i := strings.IndexByte(s[from:], c)
	if i < 0 {
		return -1
	}
	return i + from
}
