package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <command...>",
	Short: "Validate a command line without saving it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

var (
	validColor   = color.New(color.FgGreen, color.Bold)
	pendingColor = color.New(color.FgYellow)
	aliasColor   = color.New(color.FgCyan)
	invalidColor = color.New(color.FgRed, color.Bold)
)

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	res, err := a.tracker.Check(strings.Join(args, " "))
	switch {
	case err != nil:
		invalidColor.Fprint(out, "invalid")
		fmt.Fprintf(out, ": %v\n", err)
		if isUserError(err) {
			return errSilentFailure
		}
		return err
	case res.Expanded:
		aliasColor.Fprint(out, "alias")
		fmt.Fprintf(out, " -> %s\n", res.Text)
	case !res.Complete():
		pendingColor.Fprintln(out, "incomplete")
	default:
		validColor.Fprintln(out, "valid")
	}
	return nil
}
