package timecalc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FormatDuration formats d as "Xh Ym", truncating to whole minutes.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int64(d / time.Hour)
	m := int64((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatClock formats the wall-clock time of t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// DayTitle returns the calendar heading for t, e.g. "7. 3. 2026".
func DayTitle(t time.Time) string {
	return fmt.Sprintf("%d. %d. %d", t.Day(), int(t.Month()), t.Year())
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WindowStart returns midnight of the day that lies days calendar days before now.
// Events strictly after this instant are visible.
func WindowStart(now time.Time, days int) time.Time {
	return StartOfDay(now).AddDate(0, 0, -days)
}

var trailingTimeSpec = regexp.MustCompile(`@(\d\d\d\d-[0-1]\d-[0-3]\d |)(\d|[0-2]\d):([0-5]\d)$`)

// NudgeTimeSpec shifts the time specifier at the end of a command line by
// minutes, wrapping around midnight. The date part, if any, is left as typed.
// Lines without a trailing time specifier are returned unchanged.
func NudgeTimeSpec(line string, minutes int) string {
	groups := trailingTimeSpec.FindStringSubmatch(line)
	if groups == nil {
		return line
	}
	h, _ := strconv.Atoi(groups[2])
	m, _ := strconv.Atoi(groups[3])

	total := (h*60 + m + minutes) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}

	prefix := line[:strings.LastIndex(line, "@")+1]
	return fmt.Sprintf("%s%s%02d:%02d", prefix, groups[1], total/60, total%60)
}
