package cli

import (
	"context"
	"os"

	"github.com/newt-labs/newt/internal/branding"
	"github.com/newt-labs/newt/internal/config"
	"github.com/newt-labs/newt/internal/output"
	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates projects and files from installed templates.

Templates come from folders, archives, git repositories, and packages on a
template feed. Run '` + branding.NewCommand() + ` <short name>' to create one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.SetupLogging(output.LogConfig{Verbose: verbose, Writer: cmd.ErrOrStderr()})
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the command tree with build info injected via ldflags and
// returns the process exit code.
func Execute(ctx context.Context, version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.ExecuteContext(ctx)
	return exitCode(os.Stderr, err)
}
