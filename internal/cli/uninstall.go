package cli

import (
	"errors"
	"fmt"

	"github.com/newt-labs/newt/internal/output"
	"github.com/newt-labs/newt/internal/registry"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [id|path]...",
	Short: "Remove installed template packages",
	Long: `Remove installed template packages by id or path. Without arguments, list
the installed packages.`,
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		pkgs, err := mgr.Installed()
		if err != nil {
			return err
		}
		if len(pkgs) == 0 {
			fmt.Fprintln(out, "No template packages are installed.")
			return nil
		}
		fmt.Fprintln(out, "Currently installed items:")
		tbl := output.NewTable("Package", "Version", "Kind", "Path")
		for _, p := range pkgs {
			tbl.Row(p.ID, p.Version, string(p.Kind), p.Path)
		}
		fmt.Fprintln(out, tbl.String())
		return nil
	}

	for _, ref := range args {
		pkg, err := mgr.Uninstall(ref)
		if errors.Is(err, registry.ErrPackageNotFound) {
			return &ExitError{Code: ExitGeneralError, Err: fmt.Errorf("the template package '%s' is not found", ref)}
		}
		if err != nil {
			return fmt.Errorf("uninstalling %s: %w", ref, err)
		}
		fmt.Fprintf(out, "Success: %s was uninstalled.\n", pkg.ID)
	}
	return nil
}
