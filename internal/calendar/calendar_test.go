package calendar_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/tlog/internal/calendar"
	"github.com/Tiliavir/tlog/internal/model"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 2, day, hour, minute, 0, 0, time.UTC)
}

func ev(t time.Time, typ model.EventType, issue, desc string) model.Event {
	return model.Event{Time: t, Type: typ, Issue: issue, Desc: desc}
}

func TestAggregatePauseIsExcludedFromTotal(t *testing.T) {
	events := []model.Event{
		ev(at(16, 8, 0), model.TypeStart, "", ""),
		ev(at(16, 9, 0), model.TypeAway, "", ""),
		ev(at(16, 9, 30), model.TypeBack, "", ""),
		ev(at(16, 17, 0), model.TypeOut, "", ""),
	}

	cal := calendar.AggregateIn(events, time.UTC)
	require.Len(t, cal.Days, 1)
	day := cal.Days[0]

	pause, ok := day.Summary.Get(calendar.KeyPause)
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, pause)
	assert.Equal(t, int64(30*60*1000), day.Summary.Millis(calendar.KeyPause))

	total, ok := day.Summary.Get(calendar.KeyTotal)
	require.True(t, ok)
	assert.Equal(t, 8*time.Hour+30*time.Minute, total)

	assert.Empty(t, day.Summary.Issues())
	require.Len(t, day.Entries, 4)
	assert.Equal(t, calendar.IssuelessColor, day.Entries[0].Color)
	assert.Equal(t, calendar.IssuelessColor, day.Entries[2].Color)
	assert.Equal(t, model.TypeStart, day.Entries[2].Resumed)
}

func TestAggregateBackResumesPreviousIssue(t *testing.T) {
	events := []model.Event{
		ev(at(16, 9, 0), model.TypeStart, "FOO-1", "fixing"),
		ev(at(16, 9, 15), model.TypeAway, "", ""),
		ev(at(16, 9, 20), model.TypeBack, "", ""),
		ev(at(16, 17, 0), model.TypeOut, "", ""),
	}

	cal := calendar.AggregateIn(events, time.UTC)
	require.Len(t, cal.Days, 1)
	day := cal.Days[0]

	assert.Equal(t, map[string]time.Duration{
		"FOO-1":            15*time.Minute + 7*time.Hour + 40*time.Minute,
		calendar.KeyPause: 5 * time.Minute,
		calendar.KeyTotal: 7*time.Hour + 55*time.Minute,
	}, day.Summary.Map())

	back := day.Entries[2]
	assert.Equal(t, model.TypeBack, back.Type)
	assert.Equal(t, "FOO-1", back.Issue)
	assert.Equal(t, "fixing", back.Desc)
	assert.Equal(t, day.Entries[0].Color, back.Color)
	assert.Equal(t, at(16, 9, 20), back.Time)
	assert.Equal(t, "09:20 FOO-1 - fixing", back.Text())

	// The stored start event keeps its own time.
	assert.Equal(t, at(16, 9, 0), events[0].Time)
	assert.Equal(t, at(16, 9, 0), day.Entries[0].Time)
}

func TestAggregatePauseBeforeNewTask(t *testing.T) {
	events := []model.Event{
		ev(at(15, 10, 45), model.TypeStart, "FOO-11111", "moar!"),
		ev(at(15, 11, 15), model.TypeAway, "", ""),
		ev(at(15, 11, 45), model.TypeStart, "FOO-33333", "new stuff"),
		ev(at(15, 16, 10), model.TypeOut, "", ""),
	}

	day := calendar.AggregateIn(events, time.UTC).Days[0]
	assert.Equal(t, map[string]time.Duration{
		"FOO-11111":        30 * time.Minute,
		"FOO-33333":        4*time.Hour + 25*time.Minute,
		calendar.KeyPause: 30 * time.Minute,
		calendar.KeyTotal: 4*time.Hour + 55*time.Minute,
	}, day.Summary.Map())
}

func TestAggregateIssuelessIntervalsCountTowardTotalOnly(t *testing.T) {
	events := []model.Event{
		ev(at(16, 8, 0), model.TypeStart, "", "doing stuff"),
		ev(at(16, 8, 15), model.TypeStart, "FOO-1", "something"),
		ev(at(16, 10, 0), model.TypeOut, "", ""),
	}

	day := calendar.AggregateIn(events, time.UTC).Days[0]
	assert.Equal(t, map[string]time.Duration{
		"FOO-1":            time.Hour + 45*time.Minute,
		calendar.KeyTotal: 2 * time.Hour,
	}, day.Summary.Map())
}

func TestAggregateDaysAreMostRecentFirst(t *testing.T) {
	events := []model.Event{
		ev(at(14, 8, 0), model.TypeStart, "A", ""),
		ev(at(14, 16, 0), model.TypeOut, "", ""),
		ev(at(15, 8, 0), model.TypeStart, "B", ""),
		ev(at(15, 9, 0), model.TypeStart, "A", ""),
		ev(at(15, 12, 0), model.TypeOut, "", ""),
		ev(at(16, 8, 0), model.TypeStart, "C", ""),
	}

	cal := calendar.AggregateIn(events, time.UTC)
	require.Len(t, cal.Days, 3)
	assert.Equal(t, "16. 2. 2026", cal.Days[0].Title)
	assert.Equal(t, "15. 2. 2026", cal.Days[1].Title)
	assert.Equal(t, "14. 2. 2026", cal.Days[2].Title)

	// Entries within a day stay chronological.
	mid := cal.Days[1]
	require.Len(t, mid.Entries, 3)
	assert.True(t, mid.Entries[0].Time.Before(mid.Entries[1].Time))
	assert.Equal(t, []string{"B", "A"}, mid.Summary.Issues())

	// No interval spans the day boundary.
	first := cal.Days[2]
	assert.Equal(t, map[string]time.Duration{"A": 8 * time.Hour, calendar.KeyTotal: 8 * time.Hour}, first.Summary.Map())
	_, ok := cal.Days[0].Summary.Get(calendar.KeyTotal)
	assert.False(t, ok)
	require.NotNil(t, cal.Days[0].Open)
	assert.Equal(t, "C", cal.Days[0].Open.Issue)

	assert.Equal(t, []string{"C", "A", "B"}, cal.RecentIssues)
}

func TestAggregateDayBoundaryUsesDateNotOrder(t *testing.T) {
	// Events out of chronological order still split on date changes.
	events := []model.Event{
		ev(at(16, 8, 0), model.TypeStart, "A", ""),
		ev(at(15, 9, 0), model.TypeStart, "B", ""),
		ev(at(15, 10, 0), model.TypeOut, "", ""),
	}
	cal := calendar.AggregateIn(events, time.UTC)
	require.Len(t, cal.Days, 2)
	assert.Equal(t, "15. 2. 2026", cal.Days[0].Title)
	assert.Equal(t, "16. 2. 2026", cal.Days[1].Title)
}

func TestAggregateDayBoundaryRespectsLocation(t *testing.T) {
	berlin := time.FixedZone("CET", 60*60)
	events := []model.Event{
		ev(time.Date(2026, 2, 15, 22, 30, 0, 0, time.UTC), model.TypeStart, "A", ""),
		ev(time.Date(2026, 2, 15, 23, 30, 0, 0, time.UTC), model.TypeOut, "", ""),
	}

	assert.Len(t, calendar.AggregateIn(events, time.UTC).Days, 1)

	cal := calendar.AggregateIn(events, berlin)
	require.Len(t, cal.Days, 2)
	assert.Equal(t, "16. 2. 2026", cal.Days[0].Title)
	assert.Equal(t, "00:30", cal.Days[0].Entries[0].Text())
}

func TestAggregateOutOfOrderDurationsAreClamped(t *testing.T) {
	events := []model.Event{
		ev(at(16, 10, 0), model.TypeStart, "A", ""),
		ev(at(16, 9, 0), model.TypeOut, "", ""),
	}
	day := calendar.AggregateIn(events, time.UTC).Days[0]
	d, ok := day.Summary.Get("A")
	require.True(t, ok)
	assert.Zero(t, d)
}

func TestAggregateBackWithoutPauseContinuesPrevious(t *testing.T) {
	events := []model.Event{
		ev(at(16, 9, 0), model.TypeStart, "A", ""),
		ev(at(16, 10, 0), model.TypeBack, "", ""),
		ev(at(16, 11, 0), model.TypeOut, "", ""),
	}
	day := calendar.AggregateIn(events, time.UTC).Days[0]
	assert.Equal(t, map[string]time.Duration{"A": 2 * time.Hour, calendar.KeyTotal: 2 * time.Hour}, day.Summary.Map())
	assert.Equal(t, "A", day.Entries[1].Issue)
}

func TestAggregateBackWithNothingToResume(t *testing.T) {
	events := []model.Event{
		ev(at(16, 9, 0), model.TypeBack, "", ""),
		ev(at(16, 10, 0), model.TypeOut, "", ""),
	}
	require.NotPanics(t, func() {
		day := calendar.AggregateIn(events, time.UTC).Days[0]
		assert.Equal(t, map[string]time.Duration{calendar.KeyTotal: time.Hour}, day.Summary.Map())
		assert.Equal(t, calendar.IssuelessColor, day.Entries[0].Color)
	})

	// A day that opens with a pause resumes into an issueless record.
	events = []model.Event{
		ev(at(16, 8, 0), model.TypeAway, "", ""),
		ev(at(16, 8, 30), model.TypeBack, "", ""),
		ev(at(16, 9, 0), model.TypeOut, "", ""),
	}
	day := calendar.AggregateIn(events, time.UTC).Days[0]
	assert.Equal(t, map[string]time.Duration{
		calendar.KeyPause: 30 * time.Minute,
		calendar.KeyTotal: 30 * time.Minute,
	}, day.Summary.Map())
}

func TestAggregatePauseCarriesIntoNextDay(t *testing.T) {
	events := []model.Event{
		ev(at(15, 8, 0), model.TypeStart, "A", ""),
		ev(at(15, 17, 0), model.TypeAway, "", ""),
		ev(at(16, 8, 0), model.TypeStart, "B", ""),
		ev(at(16, 9, 0), model.TypeOut, "", ""),
	}
	cal := calendar.AggregateIn(events, time.UTC)
	require.Len(t, cal.Days, 2)

	// The overnight away closes into the next day's pause, not into A.
	today := cal.Days[0]
	assert.Equal(t, map[string]time.Duration{
		"B":               time.Hour,
		calendar.KeyTotal: time.Hour,
		calendar.KeyPause: 15 * time.Hour,
	}, today.Summary.Map())

	yesterday := cal.Days[1]
	assert.Equal(t, at(15, 17, 0), yesterday.PausedSince)
	require.NotNil(t, yesterday.Open)
	assert.Equal(t, "A", yesterday.Open.Issue)
	assert.Equal(t, 9*time.Hour, yesterday.Summary.Map()["A"])
}

func TestAggregateColors(t *testing.T) {
	var events []model.Event
	for i := 0; i < 9; i++ {
		events = append(events, ev(at(16, 8, i), model.TypeStart, fmt.Sprintf("I-%d", i), ""))
	}
	events = append(events,
		ev(at(16, 9, 0), model.TypeStart, "", "no issue"),
		ev(at(17, 9, 0), model.TypeStart, "I-2", ""),
		ev(at(17, 10, 0), model.TypeOut, "I-3", ""),
	)

	cal := calendar.AggregateIn(events, time.UTC)
	require.Len(t, cal.Days, 2)

	day := cal.Days[1]
	for i := 0; i < 8; i++ {
		assert.Equal(t, calendar.Palette[i], day.Entries[i].Color, "issue %d", i)
	}
	assert.Equal(t, calendar.Palette[0], day.Entries[8].Color, "palette wraps around")
	assert.Equal(t, calendar.IssuelessColor, day.Entries[9].Color)

	next := cal.Days[0]
	assert.Equal(t, calendar.Palette[2], next.Entries[0].Color, "colors persist across days")
	assert.Empty(t, next.Entries[1].Color, "out entries are not colored")
}

func TestAggregateIsIdempotent(t *testing.T) {
	events := []model.Event{
		ev(at(15, 8, 0), model.TypeStart, "A", "x"),
		ev(at(15, 9, 0), model.TypeAway, "", ""),
		ev(at(15, 9, 10), model.TypeBack, "", ""),
		ev(at(15, 12, 0), model.TypeStart, "B", ""),
		ev(at(16, 8, 0), model.TypeStart, "B", ""),
		ev(at(16, 12, 0), model.TypeOut, "", ""),
	}
	first := calendar.AggregateIn(events, time.UTC)
	second := calendar.AggregateIn(events, time.UTC)
	assert.Equal(t, first, second)
}

func TestSummaryLinesOrder(t *testing.T) {
	events := []model.Event{
		ev(at(16, 8, 0), model.TypeStart, "ZED", ""),
		ev(at(16, 9, 0), model.TypeAway, "", ""),
		ev(at(16, 9, 30), model.TypeStart, "ALPHA", ""),
		ev(at(16, 10, 0), model.TypeOut, "", ""),
	}
	lines := calendar.AggregateIn(events, time.UTC).Days[0].Summary.Lines()

	var keys []string
	for _, l := range lines {
		keys = append(keys, l.Key)
	}
	assert.Equal(t, []string{calendar.KeyTotal, calendar.KeyPause, "ZED", "ALPHA"}, keys)
	assert.True(t, lines[0].Special)
	assert.Equal(t, "Total", lines[0].Label)
	assert.Equal(t, "Pause", lines[1].Label)
	assert.False(t, lines[2].Special)
}

func TestSummaryLinesSkipZeroTotals(t *testing.T) {
	// A lone start has nothing closed yet.
	day := calendar.AggregateIn([]model.Event{
		ev(at(16, 8, 0), model.TypeStart, "A", ""),
	}, time.UTC).Days[0]
	assert.Empty(t, day.Summary.Lines())

	// A clamped interval keeps its issue row but shows no total.
	day = calendar.AggregateIn([]model.Event{
		ev(at(16, 10, 0), model.TypeStart, "A", ""),
		ev(at(16, 9, 0), model.TypeOut, "", ""),
	}, time.UTC).Days[0]
	lines := day.Summary.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "A", lines[0].Key)
	assert.Zero(t, lines[0].Duration)

	// Same for a pause closed out of order.
	day = calendar.AggregateIn([]model.Event{
		ev(at(16, 10, 0), model.TypeAway, "", ""),
		ev(at(16, 9, 0), model.TypeBack, "", ""),
	}, time.UTC).Days[0]
	assert.Empty(t, day.Summary.Lines())
}

func TestDayFirstStartAndLookup(t *testing.T) {
	events := []model.Event{
		ev(at(16, 8, 0), model.TypeStart, "", ""),
		ev(at(16, 8, 30), model.TypeStart, "FOO-1", ""),
		ev(at(16, 9, 0), model.TypeStart, "FOO-2", ""),
		ev(at(16, 10, 0), model.TypeStart, "FOO-1", ""),
	}
	cal := calendar.AggregateIn(events, time.UTC)

	day, ok := cal.Day(at(16, 23, 0))
	require.True(t, ok)
	start, ok := day.FirstStart("FOO-1")
	require.True(t, ok)
	assert.Equal(t, at(16, 8, 30), start)

	_, ok = day.FirstStart("NOPE")
	assert.False(t, ok)

	_, ok = cal.Day(at(17, 8, 0))
	assert.False(t, ok)
}

func TestAggregateEmpty(t *testing.T) {
	cal := calendar.Aggregate(nil)
	assert.Empty(t, cal.Days)
	assert.Empty(t, cal.RecentIssues)
}

func TestRecentIssues(t *testing.T) {
	events := []model.Event{
		ev(at(16, 8, 0), model.TypeStart, "A", ""),
		ev(at(16, 9, 0), model.TypeStart, "B", ""),
		ev(at(16, 9, 30), model.TypeAway, "", ""),
		ev(at(16, 10, 0), model.TypeStart, "A", ""),
		ev(at(16, 11, 0), model.TypeOut, "C", ""),
	}
	assert.Equal(t, []string{"C", "A", "B"}, calendar.RecentIssues(events))
}
