package cli

import (
	"errors"
	"fmt"

	"github.com/newt-labs/newt/internal/alias"
	"github.com/newt-labs/newt/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	aliasCmd.AddCommand(aliasAddCmd)
	aliasCmd.AddCommand(aliasRemoveCmd)
	rootCmd.AddCommand(aliasCmd)
}

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "List and manage aliases for the new command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := alias.LoadDefault()
		if err != nil {
			return err
		}
		names := store.Names()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No aliases defined.")
			return nil
		}
		tbl := output.NewTable("Alias Name", "Alias Value")
		for _, name := range names {
			value, _ := store.Get(name)
			tbl.Row(name, alias.Format(value))
		}
		fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
		return nil
	},
}

var aliasAddCmd = &cobra.Command{
	Use:   "add <name> <args>...",
	Short: "Create or replace an alias",
	Args:  cobra.MinimumNArgs(2),
	// The alias value may contain template options.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := alias.LoadDefault()
		if err != nil {
			return err
		}
		if err := store.Add(args[0], args[1:]); err != nil {
			return &ExitError{Code: ExitInvalidParameters, Err: err}
		}
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully created alias named '%s' with value '%s'\n", args[0], alias.Format(args[1:]))
		return nil
	},
}

var aliasRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := alias.LoadDefault()
		if err != nil {
			return err
		}
		if err := store.Remove(args[0]); err != nil {
			if errors.Is(err, alias.ErrNotFound) {
				return fmt.Errorf("alias '%s' is not defined", args[0])
			}
			return err
		}
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully removed alias named '%s'\n", args[0])
		return nil
	},
}
