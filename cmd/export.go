package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tlog/internal/calendar"
	"github.com/Tiliavir/tlog/internal/model"
	"github.com/Tiliavir/tlog/internal/render"
)

var (
	exportFormat string
	exportAll    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded events to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export the whole log instead of the visible window")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var events []model.Event
	if exportAll {
		events, err = a.tracker.Events(cmd.Context())
	} else {
		events, err = a.tracker.Visible(cmd.Context())
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "md":
		return render.Calendar(out, calendar.AggregateIn(events, a.tracker.Now().Location()), render.Options{})
	case "csv":
		printCSV(out, events)
	default:
		return fmt.Errorf("unsupported format: %s", exportFormat)
	}
	return nil
}

func printCSV(w io.Writer, events []model.Event) {
	fmt.Fprintln(w, "time,type,issue,description")
	for _, e := range events {
		fmt.Fprintf(w, "%s,%s,%s,%s\n",
			csvEscape(e.Time.Format(time.RFC3339)),
			csvEscape(string(e.Type)),
			csvEscape(e.Issue),
			csvEscape(e.Desc),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
