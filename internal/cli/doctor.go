package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/newt-labs/newt/internal/config"
	"github.com/newt-labs/newt/internal/manifest"
	"github.com/newt-labs/newt/internal/mount"
	"github.com/newt-labs/newt/internal/scanner"
	"github.com/newt-labs/newt/internal/userdata"
	"github.com/spf13/cobra"
)

var checkManifest string

func init() {
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a template manifest file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the newt installation",
	Long:  `Run diagnostic checks on the home directory, template sources, and tools.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if checkManifest != "" {
			return runManifestCheck(out, checkManifest)
		}

		runHomeCheck(out)
		if err := runSourcesCheck(out); err != nil {
			return err
		}
		runToolsCheck(out)
		return nil
	},
}

func runHomeCheck(w io.Writer) {
	fmt.Fprintln(w, "Home check:")
	root, err := userdata.GetRoot()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	if _, err := os.Stat(root); err != nil {
		fmt.Fprintf(w, "  [WARN] %s does not exist (run 'newt init')\n", root)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", root)
	if _, err := os.Stat(config.FilePath()); err == nil {
		fmt.Fprintf(w, "  [ OK ] %s\n", config.FilePath())
	} else {
		fmt.Fprintf(w, "  [INFO] no config file, using defaults\n")
	}
}

func runSourcesCheck(w io.Writer) error {
	fmt.Fprintln(w, "Sources check:")
	mgr, err := newManager()
	if err != nil {
		return err
	}
	sources, err := mgr.Sources()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return nil
	}
	if len(sources) == 0 {
		fmt.Fprintln(w, "  [INFO] no sources configured or installed")
		return nil
	}
	for _, src := range sources {
		if !mount.Exists(src.URI) {
			fmt.Fprintf(w, "  [FAIL] %s: %s is missing\n", src.Name, src.URI)
			continue
		}
		res := scanner.Scan(src.URI)
		if len(res.Templates) == 0 {
			fmt.Fprintf(w, "  [WARN] %s: no templates found\n", src.Name)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s: %d template(s)\n", src.Name, len(res.Templates))
	}
	return nil
}

func runToolsCheck(w io.Writer) {
	fmt.Fprintln(w, "Tools check:")
	checkBinary(w, "git")
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	m, err := manifest.ParseTemplateFile(path)
	if err == nil {
		fmt.Fprintf(w, "  [ OK ] Valid template manifest: %s (%s)\n", m.Name, m.Identity)
		return nil
	}

	var inv *manifest.InvalidError
	if !errors.As(err, &inv) {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}
	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(inv.Issues))
	for _, issue := range inv.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(inv.Issues))
}
