package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/newt-labs/newt/internal/branding"
)

// Directory and file name constants for the ~/.newt layout.
const (
	PackagesDir                 = "packages"
	CacheDir                    = "cache"
	PackagesFile                = "packages.yaml"
	AliasesFile                 = "aliases.yaml"
	ScanCacheFile               = "scan-cache.json"
	UpdateCheckFile             = "update-check.json"
	ConfigFileName              = "config.yaml"
	DirPermNormal   os.FileMode = 0755
	FilePermNormal  os.FileMode = 0644
)

// GetRoot returns the newt home directory. NEWT_HOME wins over ~/.newt.
func GetRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetPackagesRoot returns the directory installed template packages live in.
func GetPackagesRoot() (string, error) {
	return join(PackagesDir)
}

// GetPackagesFile returns the path of the installed package manifest.
func GetPackagesFile() (string, error) {
	return join(PackagesFile)
}

// GetAliasesFile returns the path of the alias store.
func GetAliasesFile() (string, error) {
	return join(AliasesFile)
}

// GetCacheDir returns the cache directory.
func GetCacheDir() (string, error) {
	return join(CacheDir)
}

// GetScanCachePath returns the scan cache file path.
func GetScanCachePath() (string, error) {
	return join(CacheDir, ScanCacheFile)
}

func join(elem ...string) (string, error) {
	root, err := GetRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{root}, elem...)...), nil
}

// GetUpdateCheckPath returns the update-check cache file path.
func GetUpdateCheckPath() (string, error) {
	return join(CacheDir, UpdateCheckFile)
}
