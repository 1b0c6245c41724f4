package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/newt-labs/newt/internal/branding"
	"github.com/newt-labs/newt/internal/userdata"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognised configuration keys.
const (
	KeyDefaultLanguage = "default_language"
	KeyFeedURL         = "feed_url"
	KeyUpdateCheck     = "update_check"
	KeyLocale          = "locale"
	KeySources         = "sources"
)

// Keys returns the recognised keys in display order.
func Keys() []string {
	return []string{KeyDefaultLanguage, KeyFeedURL, KeyUpdateCheck, KeyLocale, KeySources}
}

// IsKey reports whether key is a recognised configuration key.
func IsKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Dir returns the path to the config directory (~/.newt/ or NEWT_HOME).
func Dir() string {
	root, err := userdata.GetRoot()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return root
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyFeedURL, branding.FeedURL())
	viper.SetDefault(KeyUpdateCheck, true)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetBool returns a boolean config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStringSlice returns a list config value. A plain string value such as
// NEWT_SOURCES="/a /b" is split on whitespace.
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
