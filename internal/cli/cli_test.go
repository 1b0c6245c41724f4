package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newt-labs/newt/internal/resolve"
)

type runResult struct {
	stdout string
	stderr string
	code   int
}

// setupHome points NEWT_HOME at a fresh directory and turns off the update
// check so no test reaches the network.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("NEWT_HOME", home)
	t.Setenv("NEWT_UPDATE_CHECK", "false")
	t.Setenv("NEWT_SOURCES", "")
	t.Setenv("NEWT_DEFAULT_LANGUAGE", "")
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) runResult {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	code := exitCode(&stderr, err)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func consoleManifest(name, language string) string {
	return fmt.Sprintf(`{
  "identity": "Newt.Console.%[1]s",
  "groupIdentity": "Newt.Console",
  "name": "Console App",
  "shortName": "console",
  "sourceName": "MyApp",
  "tags": {"language": %[2]q, "type": "project"},
  "symbols": {
    "Framework": {
      "type": "parameter",
      "datatype": "choice",
      "defaultValue": "net5.0",
      "replaces": "FRAMEWORK",
      "choices": [
        {"choice": "net5.0", "description": "Target net5.0"},
        {"choice": "net8.0", "description": "Target net8.0"}
      ]
    }
  }
}`, name, language)
}

const consoleProject = "<TargetFramework>FRAMEWORK</TargetFramework>\n"

// writeConsole writes a console template for language under dir/name.
func writeConsole(t *testing.T, dir, name, language string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, name, ".template.config", "template.json"), consoleManifest(name, language))
	writeFile(t, filepath.Join(dir, name, "MyApp.proj"), consoleProject)
}

// useSources registers dirs as extra template sources.
func useSources(t *testing.T, dirs ...string) {
	t.Helper()
	t.Setenv("NEWT_SOURCES", strings.Join(dirs, " "))
}

func TestNew_CreatesFromSource(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")
	useSources(t, src)

	out := filepath.Join(t.TempDir(), "Hello")
	res := run(t, "new", "console", "-n", "Hello", "-o", out, "--Framework", "net8.0")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "The template \"Console App\" was created successfully.\n", res.stdout)

	data, err := os.ReadFile(filepath.Join(out, "Hello.proj"))
	require.NoError(t, err)
	assert.Equal(t, "<TargetFramework>net8.0</TargetFramework>\n", string(data))
}

func TestNew_NoMatch(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")
	useSources(t, src)

	res := run(t, "new", "webapi")

	assert.Equal(t, ExitNoMatch, res.code)
	assert.Contains(t, res.stderr, "No templates found matching: 'webapi'.")
	assert.Contains(t, res.stderr, "newt search webapi")
	assert.NotContains(t, res.stderr, "Error:", "the diagnostic is printed once")
}

func TestNew_AmbiguousGroupThenLanguage(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")
	writeConsole(t, src, "fsharp", "F#")
	useSources(t, src)

	res := run(t, "new", "console", "-o", t.TempDir())
	assert.Equal(t, ExitAmbiguous, res.code)
	assert.Contains(t, res.stderr, "Re-run the command specifying the language to use with --language option.")

	res = run(t, "new", "console", "--language", "F#", "-o", t.TempDir())
	assert.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "was created successfully.")
}

func TestNew_DefaultLanguageBreaksGroupTie(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")
	writeConsole(t, src, "fsharp", "F#")
	useSources(t, src)
	t.Setenv("NEWT_DEFAULT_LANGUAGE", "C#")

	out := t.TempDir()
	res := run(t, "new", "console", "-n", "App", "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.FileExists(t, filepath.Join(out, "App.proj"))
}

func TestNew_InvalidOptions(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")
	useSources(t, src)

	res := run(t, "new", "console", "--fake", "--Framework", "net9.0")

	assert.Equal(t, ExitInvalidParameters, res.code)
	assert.Contains(t, res.stderr, "Error: Invalid option(s):\n")
	assert.Contains(t, res.stderr, "   '--fake' is not a valid option\n")
	assert.Contains(t, res.stderr, "   'net9.0' is not a valid value for --Framework. The possible values are:\n")
	assert.Contains(t, res.stderr, "      net8.0          - Target net8.0\n")
	assert.Contains(t, res.stderr, "For more information, run 'newt new console --help'.")
}

func TestNew_OverwriteNeedsForce(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")
	useSources(t, src)

	out := t.TempDir()
	writeFile(t, filepath.Join(out, "Hello.proj"), "keep me")

	res := run(t, "new", "console", "-n", "Hello", "-o", out)
	assert.Equal(t, ExitOverwrite, res.code)
	assert.Contains(t, res.stderr, "  Overwrite   ./Hello.proj\n")
	assert.Contains(t, res.stderr, "Rerun the command and pass --force to accept and create.")
	data, _ := os.ReadFile(filepath.Join(out, "Hello.proj"))
	assert.Equal(t, "keep me", string(data))

	res = run(t, "new", "console", "-n", "Hello", "-o", out, "--force")
	assert.Equal(t, ExitSuccess, res.code, res.stderr)
	data, _ = os.ReadFile(filepath.Join(out, "Hello.proj"))
	assert.Equal(t, "<TargetFramework>net5.0</TargetFramework>\n", string(data))
}

func TestNew_DryRunWritesNothing(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")
	useSources(t, src)

	out := t.TempDir()
	res := run(t, "new", "console", "-n", "Hello", "-o", out, "--dry-run")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "File actions would have been taken:\n  Create      ./Hello.proj\n", res.stdout)
	entries, _ := os.ReadDir(out)
	assert.Empty(t, entries)
}

func TestNew_AliasRoundTrip(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")
	useSources(t, src)

	res := run(t, "new", "console", "--Framework", "net8.0", "--alias", "c8")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Successfully created alias named 'c8' with value 'console --Framework net8.0'\n", res.stdout)

	out := t.TempDir()
	res = run(t, "new", "c8", "-n", "Hello", "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout,
		"After expanding aliases, the command is:\n    newt new console --Framework net8.0 -n Hello -o "+out+"\n"), res.stdout)

	data, err := os.ReadFile(filepath.Join(out, "Hello.proj"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "net8.0")

	res = run(t, "alias")
	assert.Contains(t, res.stdout, "c8")
}

func TestNew_MissingShortName(t *testing.T) {
	setupHome(t)

	res := run(t, "new")
	assert.Equal(t, ExitInvalidParameters, res.code)
	assert.Contains(t, res.stderr, "A template short name is required.")
}

func TestNew_TemplateHelp(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")
	useSources(t, src)

	res := run(t, "new", "console", "--help")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Template options:")
	assert.Contains(t, res.stdout, "--Framework")
	assert.Contains(t, res.stdout, "net5.0, net8.0")
}

func TestInstallListUninstall(t *testing.T) {
	setupHome(t)
	src := t.TempDir()
	writeConsole(t, src, "csharp", "C#")

	res := run(t, "install", src)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "installed the following templates:")
	assert.Contains(t, res.stdout, "console")

	res = run(t, "list", "--json")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"identity": "Newt.Console.csharp"`)

	res = run(t, "uninstall")
	assert.Contains(t, res.stdout, "Currently installed items:")

	res = run(t, "uninstall", src)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "was uninstalled.")

	res = run(t, "uninstall", src)
	assert.Equal(t, ExitGeneralError, res.code)
	assert.Contains(t, res.stderr, "Error: the template package '"+src+"' is not found")
}

func TestConfigSetGet(t *testing.T) {
	setupHome(t)

	res := run(t, "config", "set", "locale", "de-DE")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	res = run(t, "config", "get", "locale")
	assert.Equal(t, "de-DE\n", res.stdout)
}

func TestConfig_UnknownKey(t *testing.T) {
	setupHome(t)

	res := run(t, "config", "set", "colour", "blue")
	assert.Equal(t, ExitInvalidParameters, res.code)
	assert.Contains(t, res.stderr, `Error: unknown config key "colour"`)
}

func TestConfigList(t *testing.T) {
	setupHome(t)
	t.Setenv("NEWT_DEFAULT_LANGUAGE", "F#")

	res := run(t, "config", "list")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "default_language")
	assert.Contains(t, res.stdout, "F#")
}

func TestVersion(t *testing.T) {
	setupHome(t)

	res := run(t, "version", "--short")
	assert.Equal(t, buildVersion+"\n", res.stdout)
}

func TestParseNewArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		shortName string
		output    string
		language  string
		force     bool
		template  []resolve.Arg
	}{
		{
			name:      "core and template options interleaved",
			args:      []string{"console", "--Framework", "net8.0", "-o", "out", "--force"},
			shortName: "console",
			output:    "out",
			force:     true,
			template:  []resolve.Arg{{Flag: "--Framework", Name: "Framework", Value: "net8.0", HasValue: true}},
		},
		{
			name:      "equals values",
			args:      []string{"--language=F#", "console", "--port=80"},
			shortName: "console",
			language:  "F#",
			template:  []resolve.Arg{{Flag: "--port", Name: "port", Value: "80", HasValue: true}},
		},
		{
			name:      "bare template flag before core flag",
			args:      []string{"console", "--skipRestore", "--force"},
			shortName: "console",
			force:     true,
			template:  []resolve.Arg{{Flag: "--skipRestore", Name: "skipRestore"}},
		},
		{
			name:      "attached shorthand value",
			args:      []string{"console", "-oout"},
			shortName: "console",
			output:    "out",
		},
		{
			name:      "bare template flag before short name",
			args:      []string{"--use-program-main", "console", "--Framework", "net8.0"},
			shortName: "console",
			template: []resolve.Arg{
				{Flag: "--use-program-main", Name: "use-program-main"},
				{Flag: "--Framework", Name: "Framework", Value: "net8.0", HasValue: true},
			},
		},
		{
			name:      "extra positional is unknown",
			args:      []string{"console", "extra"},
			shortName: "console",
			template:  []resolve.Arg{{Flag: "extra", Name: "extra"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseNewArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.shortName, o.shortName)
			assert.Equal(t, tt.output, o.output)
			assert.Equal(t, tt.language, o.language)
			assert.Equal(t, tt.force, o.force)
			assert.Equal(t, tt.template, o.templateArgs)
		})
	}
}

func TestParseNewArgs_DropsAlias(t *testing.T) {
	o, err := parseNewArgs([]string{"console", "--alias", "c", "-n", "x"})
	require.NoError(t, err)
	assert.Equal(t, "c", o.alias)
	assert.Equal(t, []string{"console", "-n", "x"}, o.effective)
}
