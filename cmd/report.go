package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tlog/internal/reporting"
	"github.com/Tiliavir/tlog/internal/timecalc"
)

var (
	reportDate    string
	reportSeconds int64
	reportStart   string
)

var reportCmd = &cobra.Command{
	Use:   "report <issue>",
	Short: "Send the time tracked on an issue to the report URL",
	Long: `Expands the report URL template with the issue, the seconds tracked on it
and the time work on it started, then opens the result.

Without --seconds the values come from the calendar of --date (default today).`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Day to report (YYYY-MM-DD); defaults to today")
	reportCmd.Flags().Int64Var(&reportSeconds, "seconds", 0, "Report this many seconds instead of the tracked time")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Start time for --seconds (RFC 3339 or HH:MM today)")
}

func runReport(cmd *cobra.Command, args []string) error {
	issue := args[0]

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	now := a.tracker.Now()
	out := cmd.OutOrStdout()

	if reportSeconds > 0 {
		start, err := parseReportStart(reportStart, now)
		if err != nil {
			return err
		}
		if err := a.tracker.Report(cmd.Context(), issue, reportSeconds, start); err != nil {
			return reportError(err)
		}
		fmt.Fprintf(out, "Reported %s: %s\n", issue, timecalc.FormatDuration(time.Duration(reportSeconds)*time.Second))
		return nil
	}

	date := now
	if reportDate != "" {
		d, err := time.ParseInLocation("2006-01-02", reportDate, now.Location())
		if err != nil {
			return fmt.Errorf("invalid --date value %q: %w", reportDate, err)
		}
		date = d
	}

	sum, err := a.tracker.ReportIssue(cmd.Context(), issue, date)
	if err != nil {
		return reportError(err)
	}
	fmt.Fprintf(out, "Reported %s: %s\n", sum.Issue, timecalc.FormatDuration(time.Duration(sum.Seconds)*time.Second))
	return nil
}

func reportError(err error) error {
	if errors.Is(err, reporting.ErrNoReportURL) {
		return fmt.Errorf("%w\nPlease configure a report URL first, e.g.:\n  tlog do 'R https://host/log?issue={#}&sec={@sec}&start={@start}'", err)
	}
	return err
}

func parseReportStart(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("15:04", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --start value %q, want RFC 3339 or HH:MM", s)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}
