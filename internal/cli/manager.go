package cli

import (
	"fmt"
	"os"

	"github.com/newt-labs/newt/internal/config"
	"github.com/newt-labs/newt/internal/registry"
	"github.com/newt-labs/newt/internal/updater"
	"github.com/newt-labs/newt/internal/userdata"
)

// newManager builds the template package manager from user settings.
func newManager() (*registry.Manager, error) {
	packagesDir, err := userdata.GetPackagesRoot()
	if err != nil {
		return nil, fmt.Errorf("resolving packages directory: %w", err)
	}
	packagesFile, err := userdata.GetPackagesFile()
	if err != nil {
		return nil, fmt.Errorf("resolving packages file: %w", err)
	}
	cachePath, err := userdata.GetScanCachePath()
	if err != nil {
		return nil, fmt.Errorf("resolving scan cache: %w", err)
	}

	return registry.NewManager(registry.Options{
		PackagesDir:  packagesDir,
		PackagesFile: packagesFile,
		CachePath:    cachePath,
		Sources:      config.GetStringSlice(config.KeySources),
		Locale:       locale(),
		Feed:         newFeedClient(),
	}), nil
}

func newFeedClient() *updater.Client {
	return updater.New(config.Get(config.KeyFeedURL))
}

// locale prefers the configured locale, then the environment.
func locale() string {
	if l := config.Get(config.KeyLocale); l != "" {
		return l
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}
