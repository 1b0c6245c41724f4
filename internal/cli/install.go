package cli

import (
	"fmt"

	"github.com/newt-labs/newt/internal/output"
	"github.com/newt-labs/newt/internal/userdata"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <folder|archive|id[::version]|git+url[#ref]>...",
	Short: "Install template packages",
	Long: `Install template packages from a local folder, a .zip or .nupkg archive,
a git repository, or the package feed.

  newt install ./my-templates
  newt install ./Acme.Templates.1.0.0.nupkg
  newt install Newt.Templates.Web::2.0.0
  newt install git+https://github.com/acme/templates.git#v1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	if err := userdata.EnsureLayout(); err != nil {
		return err
	}
	mgr, err := newManager()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, ref := range args {
		fmt.Fprintf(out, "Installing %s...\n", ref)
		res, err := mgr.Install(cmd.Context(), ref)
		if err != nil {
			return fmt.Errorf("installing %s: %w", ref, err)
		}
		if res.Replaced != nil && res.Replaced.Version != "" {
			fmt.Fprintf(out, "Replaced %s version %s.\n", res.Replaced.ID, res.Replaced.Version)
		}

		name := output.StyleNoun.Render(res.Package.ID)
		if res.Package.Version != "" {
			name += "::" + res.Package.Version
		}
		fmt.Fprintf(out, "Success: %s installed the following templates:\n", name)

		tbl := output.NewTable("Template Name", "Short Name", "Language", "Type")
		for _, t := range res.Templates {
			tbl.Row(t.Name, t.PrimaryShortName(), t.Language, t.Type)
		}
		fmt.Fprintln(out, tbl.String())
	}
	return nil
}
