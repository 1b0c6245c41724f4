package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultCacheMaxAge is the default maximum age for update-check results.
const DefaultCacheMaxAge = 24 * time.Hour

// CheckCache holds update-check results per package id.
type CheckCache struct {
	Packages map[string]CacheEntry `json:"packages"`
}

// CacheEntry is the last update check for one package.
type CacheEntry struct {
	CurrentVersion string    `json:"current_version"`
	LatestVersion  string    `json:"latest_version"`
	CheckedAt      time.Time `json:"checked_at"`
}

// LoadCache reads the update-check cache.
// Returns an empty cache if the file does not exist (first run).
func LoadCache(path string) (*CheckCache, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &CheckCache{Packages: map[string]CacheEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading update-check cache: %w", err)
	}

	var cache CheckCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing update-check cache: %w", err)
	}
	if cache.Packages == nil {
		cache.Packages = map[string]CacheEntry{}
	}
	return &cache, nil
}

// SaveCache writes the update-check cache.
func SaveCache(path string, cache *CheckCache) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling update-check cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing update-check cache: %w", err)
	}
	return nil
}

// IsStale returns true if the entry is older than maxAge at now.
func (e CacheEntry) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.CheckedAt) > maxAge
}
