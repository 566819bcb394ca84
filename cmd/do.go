package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tlog/internal/command"
	"github.com/Tiliavir/tlog/internal/timecalc"
)

var doCmd = &cobra.Command{
	Use:   "do <command...>",
	Short: "Record a time entry, define an alias or set the report URL",
	Long: `Submits one command line, e.g.

  tlog do S fixing the build '#FOO-1' @9:00
  tlog do A @12:00
  tlog do D lunch A @12:00
  tlog do 'R https://host/log?issue={#}&sec={@sec}'

Run "tlog syntax" for the full command language.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDo,
}

func runDo(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	line := strings.Join(args, " ")
	c, err := a.tracker.Submit(cmd.Context(), line)
	if err != nil {
		if isUserError(err) {
			a.logger.Debug("rejected", "line", line, "err", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	switch c := c.(type) {
	case command.TimeEntry:
		fmt.Fprintf(out, "Saved %s%s at %s\n", c.Type, describe(c), timecalc.FormatClock(c.Time))
	case command.AliasDefinition:
		if c.Deletes() {
			fmt.Fprintf(out, "Alias %q deleted\n", c.Alias)
		} else {
			fmt.Fprintf(out, "Alias %q = %q\n", c.Alias, c.Expansion)
		}
	case command.ReportURLDefinition:
		fmt.Fprintf(out, "Report URL set to %s\n", c.URL)
	}
	return nil
}

func describe(e command.TimeEntry) string {
	var s string
	if e.Issue != "" {
		s += " " + e.Issue
	}
	if e.Desc != "" {
		s += fmt.Sprintf(" %q", e.Desc)
	}
	return s
}
