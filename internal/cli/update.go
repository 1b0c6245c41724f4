package cli

import (
	"fmt"

	"github.com/newt-labs/newt/internal/output"
	"github.com/newt-labs/newt/internal/registry"
	"github.com/newt-labs/newt/internal/updater"
	"github.com/spf13/cobra"
)

var updateCheckOnly bool

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "Only check for updates, don't install")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update installed template packages",
	Long: `Check every package installed from the feed for a newer version and install
it.

  newt update            # update all feed packages
  newt update --check    # check only`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	mgr, err := newManager()
	if err != nil {
		return err
	}
	pkgs, err := mgr.Installed()
	if err != nil {
		return err
	}

	client := newFeedClient()
	var updates []updater.UpdateInfo
	for _, p := range pkgs {
		if p.Kind != registry.KindFeed {
			continue
		}
		idx, err := client.FetchIndex(ctx, p.ID)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not check %s: %v\n", p.ID, err)
			continue
		}
		latest, err := updater.Latest(idx, updater.IsPrerelease(p.Version))
		if err != nil {
			output.Debug("no installable version", "package", p.ID, "err", err)
			continue
		}
		available, err := updater.IsUpdateAvailable(p.Version, latest.Version)
		if err != nil || !available {
			continue
		}
		updates = append(updates, updater.UpdateInfo{PackageID: p.ID, CurrentVersion: p.Version, LatestVersion: latest.Version})
	}

	if len(updates) == 0 {
		fmt.Fprintln(out, "All template packages are up to date.")
		return nil
	}

	for _, u := range updates {
		if updateCheckOnly {
			updater.PrintNotice(out, &u)
			continue
		}
		if _, err := mgr.Install(ctx, u.PackageID+"::"+u.LatestVersion); err != nil {
			return fmt.Errorf("updating %s: %w", u.PackageID, err)
		}
		fmt.Fprintf(out, "Updated %s from %s to %s.\n", output.StyleNoun.Render(u.PackageID), u.CurrentVersion, u.LatestVersion)
	}
	return nil
}
