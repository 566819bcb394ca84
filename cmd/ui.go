package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/tlog/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive prompt",
	Long: `Opens a prompt that validates the command line while you type and saves
it on enter. "@" inserts the current time, up/down adjust it by a minute and
tab cycles through recently used issues.`,
	Args: cobra.NoArgs,
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(cmd.Context(), a.tracker)
}
