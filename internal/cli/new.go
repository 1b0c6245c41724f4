package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/newt-labs/newt/internal/alias"
	"github.com/newt-labs/newt/internal/branding"
	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/component"
	"github.com/newt-labs/newt/internal/config"
	"github.com/newt-labs/newt/internal/invoke"
	"github.com/newt-labs/newt/internal/output"
	"github.com/newt-labs/newt/internal/resolve"
	"github.com/newt-labs/newt/internal/scaffold"
	"github.com/newt-labs/newt/internal/updater"
	"github.com/newt-labs/newt/internal/userdata"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var newCmd = &cobra.Command{
	Use:   "new <short name> [options] [template options]",
	Short: "Create a project or file from a template",
	Long: `Create a project or file from an installed template.

The short name selects the template; --language and --type narrow the choice
when several templates share it. Any other option is passed to the template:

  ` + branding.NewCommand() + ` console -n Hello --framework net8.0
  ` + branding.NewCommand() + ` console --alias cc          # save as an alias
  ` + branding.NewCommand() + ` cc -o ./src                 # use the alias
  ` + branding.NewCommand() + ` console --help              # template options`,
	DisableFlagParsing: true,
	RunE:               runNew,
}

func init() {
	newFlagSet(&newOptions{}).VisitAll(func(f *pflag.Flag) {
		newCmd.Flags().AddFlag(f)
	})
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	aliases, err := alias.LoadDefault()
	if err != nil {
		return err
	}
	if expanded, ok := aliases.Expand(args); ok {
		fmt.Fprintln(stdout, "After expanding aliases, the command is:")
		fmt.Fprintf(stdout, "    %s %s\n", branding.NewCommand(), alias.Format(expanded))
		args = expanded
	}

	opts, err := parseNewArgs(args)
	if err != nil {
		return &ExitError{Code: ExitInvalidParameters, Err: err}
	}
	if opts.verbose {
		output.SetupLogging(output.LogConfig{Verbose: true, Writer: stderr})
	}
	if opts.shortName == "" {
		if opts.help {
			return cmd.Help()
		}
		fmt.Fprintf(stderr, "A template short name is required. Run '%s list' to see installed templates.\n", branding.CLIName())
		return printed(ExitInvalidParameters, errors.New("missing template short name"))
	}

	if opts.alias != "" {
		if err := aliases.Add(opts.alias, opts.effective); err != nil {
			return &ExitError{Code: ExitInvalidParameters, Err: err}
		}
		if err := aliases.Save(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Successfully created alias named '%s' with value '%s'\n", opts.alias, alias.Format(opts.effective))
		return nil
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}
	loaded, err := mgr.Load(ctx)
	if err != nil {
		return err
	}

	q := resolve.Query{
		Name:            opts.shortName,
		Language:        opts.language,
		Type:            opts.typ,
		Tags:            opts.tags,
		Args:            opts.templateArgs,
		DefaultLanguage: config.Get(config.KeyDefaultLanguage),
	}
	if opts.help {
		q.Args = nil
	}
	outcome := resolve.Resolve(loaded.Catalog.Templates(), q)
	if outcome.Kind != resolve.Unambiguous {
		resolve.Render(stderr, outcome)
		return printed(resolutionExitCode(outcome.Kind), fmt.Errorf("resolving %q: %s", q.Name, outcome.Kind))
	}
	winner := outcome.Winner.Template
	output.Debug("resolved template", "identity", winner.Identity, "source", winner.SourceURI)

	if opts.help {
		printTemplateHelp(stdout, winner)
		return nil
	}

	outputDir, err := outputDirectory(opts)
	if err != nil {
		return err
	}
	set := component.NewSet(loaded.Components)
	req := scaffold.Request{
		Template:   winner,
		Components: set,
		Name:       opts.name,
		OutputDir:  outputDir,
		Values:     outcome.Winner.Values(),
		Force:      opts.force,
		DryRun:     opts.dryRun,
	}

	coord := &invoke.Coordinator{}
	if config.GetBool(config.KeyUpdateCheck) && !opts.noUpdateCheck {
		if checker, err := newChecker(); err == nil {
			coord.Checker = checker
		} else {
			output.Debug("update check disabled", "err", err)
		}
	}

	o := coord.Coordinate(ctx, req)
	var overwrite *scaffold.OverwriteError
	switch {
	case o.Cancelled():
		invoke.Report(stdout, o)
		return printed(ExitCancelled, o.Err)
	case errors.As(o.Err, &overwrite):
		scaffold.PrintOverwrite(stderr, overwrite)
		return printed(ExitOverwrite, o.Err)
	case o.Err != nil:
		return &ExitError{Code: ExitGeneralError, Err: fmt.Errorf("creating %q: %w", winner.Name, o.Err)}
	}

	if opts.dryRun {
		scaffold.PrintDryRun(stdout, o.Result, opts.diff)
		return nil
	}
	invoke.Report(stdout, o)

	var postOut io.Writer = stdout
	if opts.quiet {
		postOut = io.Discard
	}
	if err := scaffold.RunPostActions(ctx, o.Result, scaffold.PostActionOptions{
		Components: set,
		NoRestore:  opts.noRestore,
		Out:        postOut,
		Err:        stderr,
	}); err != nil {
		return &ExitError{Code: ExitGeneralError, Err: err}
	}
	return nil
}

func resolutionExitCode(k resolve.Kind) int {
	switch k {
	case resolve.NoMatch:
		return ExitNoMatch
	case resolve.InvalidParameters:
		return ExitInvalidParameters
	default:
		return ExitAmbiguous
	}
}

// outputDirectory defaults to the working directory, or a subdirectory
// named after -n when -o is not given.
func outputDirectory(opts *newOptions) (string, error) {
	if opts.output != "" {
		return filepath.Abs(opts.output)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	if opts.name != "" {
		return filepath.Join(wd, opts.name), nil
	}
	return wd, nil
}

func newChecker() (*updater.Checker, error) {
	path, err := userdata.GetUpdateCheckPath()
	if err != nil {
		return nil, err
	}
	return updater.NewChecker(newFeedClient(), path), nil
}

func printTemplateHelp(w io.Writer, t catalog.Template) {
	fmt.Fprintln(w, output.StyleNoun.Render(t.Name))
	if t.Author != "" {
		fmt.Fprintf(w, "Author: %s\n", t.Author)
	}
	if t.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", t.Description)
	}
	if t.Language != "" {
		fmt.Fprintf(w, "Language: %s\n", t.Language)
	}
	fmt.Fprintln(w)

	if len(t.Parameters) == 0 {
		fmt.Fprintln(w, "This template has no options.")
		return
	}
	tbl := output.NewTable("Option", "Type", "Default", "Description")
	for _, p := range t.Parameters {
		desc := p.Description
		if p.IsChoice() {
			var values []string
			for _, c := range p.Choices {
				values = append(values, c.Value)
			}
			desc = strings.TrimSpace(desc + " (" + strings.Join(values, ", ") + ")")
		}
		tbl.Row("--"+p.Name, p.DataType, p.DefaultValue, desc)
	}
	fmt.Fprintln(w, "Template options:")
	fmt.Fprintln(w, tbl.String())
}
