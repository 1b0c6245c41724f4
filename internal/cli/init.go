package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/newt-labs/newt/internal/branding"
	"github.com/newt-labs/newt/internal/manifest"
	"github.com/newt-labs/newt/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	initTemplate  bool
	initShortName string
	initLanguage  string
)

func init() {
	initCmd.Flags().BoolVar(&initTemplate, "template", false, "Create a template manifest in the given directory instead")
	initCmd.Flags().StringVar(&initShortName, "short-name", "", "Short name of the new template (defaults to the directory name)")
	initCmd.Flags().StringVar(&initLanguage, "language", "", "Language tag of the new template")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize the newt home or a new template",
	Long: `Initialize the newt configuration.

Without flags, creates the home directory layout (~/.newt/).
With --template, writes a starter .template.config/template.json into dir
(default: the current directory) so it can be installed as a template.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if initTemplate {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runTemplateInit(cmd, dir)
		}
		return runHomeInit(cmd)
	},
}

func runHomeInit(cmd *cobra.Command) error {
	root, err := userdata.GetRoot()
	if err != nil {
		return err
	}
	if err := userdata.EnsureLayout(); err != nil {
		return fmt.Errorf("initializing %s: %w", root, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", root)
	return nil
}

func runTemplateInit(cmd *cobra.Command, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}
	configDir := filepath.Join(abs, manifest.ConfigDir)
	for _, name := range manifest.TemplateFileNames() {
		if _, err := os.Stat(filepath.Join(configDir, name)); err == nil {
			return fmt.Errorf("template already initialized: %s exists", filepath.Join(configDir, name))
		}
	}

	base := filepath.Base(abs)
	shortName := initShortName
	if shortName == "" {
		shortName = strings.ToLower(base)
	}
	doc := map[string]interface{}{
		"identity":   base,
		"name":       base,
		"shortName":  shortName,
		"sourceName": base,
		"tags":       map[string]string{"type": "project"},
	}
	if initLanguage != "" {
		doc["tags"] = map[string]string{"type": "project", "language": initLanguage}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling template manifest: %w", err)
	}
	if _, err := manifest.ParseTemplate(data, manifest.FormatJSON); err != nil {
		return fmt.Errorf("generated manifest is invalid: %w", err)
	}

	if err := os.MkdirAll(configDir, userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating %s: %w", configDir, err)
	}
	path := filepath.Join(configDir, "template.json")
	if err := os.WriteFile(path, append(data, '\n'), userdata.FilePermNormal); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", path)
	fmt.Fprintf(out, "Run '%s install %s' to use it.\n", branding.CLIName(), dir)
	return nil
}
