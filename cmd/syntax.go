package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tlog/internal/render"
)

var syntaxCmd = &cobra.Command{
	Use:   "syntax",
	Short: "Show the command language reference",
	Args:  cobra.NoArgs,
	RunE:  runSyntax,
}

func runSyntax(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	text, err := render.Syntax(terminalWidth(out), useColor(out))
	if err != nil {
		return err
	}
	fmt.Fprint(out, text)
	return nil
}
