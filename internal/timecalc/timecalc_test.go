package timecalc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/tlog/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m"},
		{45 * time.Second, "0h 0m"},
		{15 * time.Minute, "0h 15m"},
		{90 * time.Minute, "1h 30m"},
		{8*time.Hour + 30*time.Minute + 59*time.Second, "8h 30m"},
		{-time.Minute, "0h 0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, timecalc.FormatDuration(tt.d), "FormatDuration(%v)", tt.d)
	}
}

func TestFormatDurationHHMMSS(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, timecalc.FormatDurationHHMMSS(tt.seconds))
	}
}

func TestDayTitle(t *testing.T) {
	day := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "7. 3. 2026", timecalc.DayTitle(day))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	assert.True(t, timecalc.SameDay(a, b))
	assert.False(t, timecalc.SameDay(a, c))
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 42, 0, 0, time.UTC)
	want := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, timecalc.WindowStart(now, 7))
}

func TestNudgeTimeSpec(t *testing.T) {
	tests := []struct {
		line    string
		minutes int
		want    string
	}{
		{"S #FOO-1 @9:05", 1, "S #FOO-1 @09:06"},
		{"S #FOO-1 @09:59", 1, "S #FOO-1 @10:00"},
		{"A @00:00", -1, "A @23:59"},
		{"O @23:59", 1, "O @00:00"},
		{"S x @2026-03-01 10:00", -1, "S x @2026-03-01 09:59"},
		{"S no time", 1, "S no time"},
		{"S x @10:0", 1, "S x @10:0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, timecalc.NudgeTimeSpec(tt.line, tt.minutes), "NudgeTimeSpec(%q, %d)", tt.line, tt.minutes)
	}
}
