package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)
	t.Setenv("NEWT_HOME", t.TempDir())

	Load()

	if got := Get(KeyFeedURL); got == "" {
		t.Error("expected a default feed_url")
	}
	if !GetBool(KeyUpdateCheck) {
		t.Error("update_check should default to true")
	}
	if got := Get(KeyDefaultLanguage); got != "" {
		t.Errorf("default_language = %q, want empty", got)
	}
}

func TestSetPersistsAndReloads(t *testing.T) {
	resetViper(t)
	home := t.TempDir()
	t.Setenv("NEWT_HOME", home)

	Load()
	if err := Set(KeyDefaultLanguage, "C#"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if !strings.Contains(string(data), "default_language") {
		t.Errorf("config file missing key, got:\n%s", data)
	}

	viper.Reset()
	Load()
	if got := Get(KeyDefaultLanguage); got != "C#" {
		t.Errorf("default_language = %q, want %q", got, "C#")
	}
}

func TestEnvOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("NEWT_HOME", t.TempDir())
	t.Setenv("NEWT_DEFAULT_LANGUAGE", "F#")

	Load()
	if got := Get(KeyDefaultLanguage); got != "F#" {
		t.Errorf("default_language = %q, want %q", got, "F#")
	}
}
