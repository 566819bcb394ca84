package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/tlog/internal/render"
)

var (
	calendarDays  int
	calendarTable bool
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal", "list"},
	Short:   "Show the recent days with per-issue totals",
	Args:    cobra.NoArgs,
	RunE:    runCalendar,
}

func init() {
	calendarCmd.Flags().IntVar(&calendarDays, "days", 0, "Number of past days to show besides today (default from config)")
	calendarCmd.Flags().BoolVar(&calendarTable, "table", false, "Print only the daily summaries as tables")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.tracker.SetWindowDays(calendarDays)
	cal, err := a.tracker.Calendar(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if calendarTable {
		for _, day := range cal.Days {
			render.SummaryTable(out, day)
		}
		return nil
	}
	return render.Calendar(out, cal, render.Options{Color: useColor(out)})
}
