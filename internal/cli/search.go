package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/newt-labs/newt/internal/branding"
	"github.com/newt-labs/newt/internal/output"
	"github.com/newt-labs/newt/internal/updater"
	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the package feed for templates",
	Long: `Search the package feed for template packages.

The query matches package ids, descriptions, and template short names
(case-insensitive substring). Without a query every package is listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	pkgs, err := newFeedClient().Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching the package feed: %w", err)
	}

	if searchJSON {
		return printSearchJSON(cmd, pkgs)
	}
	if len(pkgs) == 0 {
		msg := "No template packages found"
		if query != "" {
			msg += fmt.Sprintf(" matching %q", query)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg+".")
		return nil
	}
	return printSearchTable(cmd, pkgs)
}

func printSearchTable(cmd *cobra.Command, pkgs []updater.PackageSummary) error {
	tbl := output.NewTable("Package", "Latest", "Templates", "Description")
	for _, p := range pkgs {
		desc := p.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		tbl.Row(p.ID, p.Latest, strings.Join(p.Templates, ","), desc)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tbl.String())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "To use a package, run:")
	fmt.Fprintf(out, "   %s install <package>\n", branding.CLIName())
	return nil
}

func printSearchJSON(cmd *cobra.Command, pkgs []updater.PackageSummary) error {
	if pkgs == nil {
		pkgs = []updater.PackageSummary{}
	}
	data, err := json.MarshalIndent(pkgs, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
