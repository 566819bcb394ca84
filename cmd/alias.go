package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage command aliases",
}

var aliasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all aliases",
	Args:  cobra.NoArgs,
	RunE:  runAliasList,
}

var aliasSetCmd = &cobra.Command{
	Use:   "set <name> <expansion...>",
	Short: "Define an alias",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAliasSet,
}

var aliasRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete an alias",
	Args:  cobra.ExactArgs(1),
	RunE:  runAliasRm,
}

func init() {
	aliasCmd.AddCommand(aliasListCmd)
	aliasCmd.AddCommand(aliasSetCmd)
	aliasCmd.AddCommand(aliasRmCmd)
}

func runAliasList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	aliases, err := a.tracker.Aliases()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(aliases) == 0 {
		fmt.Fprintln(out, "No aliases defined.")
		return nil
	}

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	slices.Sort(names)

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Alias", "Expansion"})
	for _, name := range names {
		tw.AppendRow(table.Row{name, aliases[name]})
	}
	tw.Render()
	return nil
}

func runAliasSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, expansion := args[0], strings.Join(args[1:], " ")
	if err := a.tracker.SetAlias(name, expansion); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Alias %q = %q\n", name, expansion)
	return nil
}

func runAliasRm(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.SetAlias(args[0], ""); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Alias %q deleted\n", args[0])
	return nil
}
