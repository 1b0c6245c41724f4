package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/newt-labs/newt/internal/branding"
	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/output"
	"github.com/spf13/cobra"
)

var (
	listLanguage string
	listType     string
	listTags     []string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "List installed templates",
	Long: `List the templates available from every configured source and installed
package. The optional name matches short names and display names
(case-insensitive substring).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listLanguage, "language", "", "Filter by language")
	listCmd.Flags().StringVar(&listType, "type", "", "Filter by type (project, item, solution)")
	listCmd.Flags().StringArrayVar(&listTags, "tag", nil, "Filter by classification (repeatable)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a template for display.
type listEntry struct {
	Name       string   `json:"name"`
	ShortNames []string `json:"short_names"`
	Language   string   `json:"language,omitempty"`
	Type       string   `json:"type,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Identity   string   `json:"identity"`
	Source     string   `json:"source"`
}

func runList(cmd *cobra.Command, args []string) error {
	filter := catalog.Filter{Language: listLanguage, Type: listType, Tags: listTags}
	if len(args) > 0 {
		filter.Name = args[0]
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}
	loaded, err := mgr.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	var entries []listEntry
	for _, t := range loaded.Catalog.List(filter) {
		entries = append(entries, listEntry{
			Name:       t.Name,
			ShortNames: t.ShortNames,
			Language:   t.Language,
			Type:       t.Type,
			Tags:       t.Classifications,
			Identity:   t.Identity,
			Source:     t.SourceURI,
		})
	}

	if listJSON {
		return printListJSON(cmd, entries)
	}
	if len(entries) == 0 {
		if filter.Name != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No templates found matching: '%s'.\n", filter.Name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "No templates installed. Run '%s install <source>' to add some.\n", branding.CLIName())
		}
		return nil
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	tbl := output.NewTable("Template Name", "Short Name", "Language", "Type", "Tags")
	for _, e := range entries {
		tbl.Row(e.Name, strings.Join(e.ShortNames, ","), e.Language, e.Type, strings.Join(e.Tags, "/"))
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
	return err
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	if entries == nil {
		entries = []listEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
