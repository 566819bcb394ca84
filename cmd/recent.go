package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently used issues, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func runRecent(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	issues, err := a.tracker.RecentIssues(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(issues) == 0 {
		fmt.Fprintln(out, "No issues tracked recently.")
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintln(out, issue)
	}
	return nil
}
