package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tlog/internal/calendar"
	"github.com/Tiliavir/tlog/internal/model"
	"github.com/Tiliavir/tlog/internal/render"
	"github.com/Tiliavir/tlog/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is running and today's totals",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	cal, err := a.tracker.Calendar(cmd.Context())
	if err != nil {
		return err
	}

	now := a.tracker.Now()
	out := cmd.OutOrStdout()
	day, ok := cal.Day(now)
	if !ok {
		fmt.Fprintln(out, "Nothing tracked today.")
		return nil
	}

	switch {
	case !day.PausedSince.IsZero():
		fmt.Fprintf(out, "Away since %s (%s)\n",
			timecalc.FormatClock(day.PausedSince), formatElapsed(int64(now.Sub(day.PausedSince).Seconds())))
	case day.Open == nil:
		fmt.Fprintln(out, "Nothing running.")
	case day.Open.Type == model.TypeOut:
		fmt.Fprintf(out, "Day ended at %s\n", timecalc.FormatClock(day.Open.Time))
	default:
		printRunning(cmd, *day.Open, int64(now.Sub(day.Open.Time).Seconds()))
	}

	fmt.Fprintf(out, "Today (%s):\n", day.Title)
	for _, l := range day.Summary.Lines() {
		fmt.Fprintf(out, "  %s\n", render.SummaryLine(l))
	}
	return nil
}

func printRunning(cmd *cobra.Command, open calendar.Entry, elapsed int64) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Running:")
	if open.Issue != "" {
		fmt.Fprintf(out, "  Issue: %s\n", open.Issue)
	}
	if open.Desc != "" {
		fmt.Fprintf(out, "  Description: %s\n", open.Desc)
	}
	fmt.Fprintf(out, "  Since: %s\n", timecalc.FormatClock(open.Time))
	fmt.Fprintf(out, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(elapsed))
}

func formatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
