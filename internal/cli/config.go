package cli

import (
	"fmt"
	"strings"

	"github.com/newt-labs/newt/internal/config"
	"github.com/newt-labs/newt/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored in config.yaml under the newt home
directory. Every key can also be set through the environment as NEWT_<KEY>.

Keys:
  ` + config.KeyDefaultLanguage + `   language picked when a template exists in several languages
  ` + config.KeyFeedURL + `           package feed base URL
  ` + config.KeyUpdateCheck + `       check installed packages for updates (true/false)
  ` + config.KeyLocale + `             locale for template descriptions
  ` + config.KeySources + `            extra template folders to scan (space-separated)`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkConfigKey(key); err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkConfigKey(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting and its effective value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl := output.NewTable("Key", "Value")
		for _, key := range config.Keys() {
			tbl.Row(key, config.Get(key))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings from %s:\n", config.FilePath())
		fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configGetCmd, configListCmd)
	rootCmd.AddCommand(configCmd)
}

func checkConfigKey(key string) error {
	if config.IsKey(key) {
		return nil
	}
	return &ExitError{
		Code: ExitInvalidParameters,
		Err:  fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(config.Keys(), ", ")),
	}
}
