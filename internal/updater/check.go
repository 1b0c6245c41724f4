package updater

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/newt-labs/newt/internal/branding"
	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/output"
)

// UpdateInfo reports a newer version of an installed package.
type UpdateInfo struct {
	PackageID      string
	CurrentVersion string
	LatestVersion  string
}

// Checker answers update-availability questions, consulting a cache first.
type Checker struct {
	client    *Client
	cachePath string
	maxAge    time.Duration
	now       func() time.Time
}

// NewChecker returns a Checker that caches results at cachePath.
func NewChecker(client *Client, cachePath string) *Checker {
	return &Checker{
		client:    client,
		cachePath: cachePath,
		maxAge:    DefaultCacheMaxAge,
		now:       time.Now,
	}
}

// CheckUpdate returns the newer version of ref's package, or nil when ref is
// not an updatable package or is current. Errors mean the check could not
// complete; callers treat them as "no notice".
func (c *Checker) CheckUpdate(ctx context.Context, ref catalog.PackageRef) (*UpdateInfo, error) {
	if ref.IsZero() || ref.Version == "" {
		return nil, nil
	}

	cache, err := LoadCache(c.cachePath)
	if err != nil {
		output.Debug("ignoring update-check cache", "err", err)
		cache = &CheckCache{Packages: map[string]CacheEntry{}}
	}

	now := c.now()
	latest := ""
	if e, ok := cache.Packages[ref.ID]; ok && e.CurrentVersion == ref.Version && !e.IsStale(now, c.maxAge) {
		latest = e.LatestVersion
	} else {
		idx, err := c.client.FetchIndex(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		entry, err := Latest(idx, IsPrerelease(ref.Version))
		if err != nil {
			return nil, err
		}
		latest = entry.Version

		cache.Packages[ref.ID] = CacheEntry{
			CurrentVersion: ref.Version,
			LatestVersion:  latest,
			CheckedAt:      now,
		}
		if err := SaveCache(c.cachePath, cache); err != nil {
			output.Debug("could not save update-check cache", "err", err)
		}
	}

	available, err := IsUpdateAvailable(ref.Version, latest)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, nil
	}
	return &UpdateInfo{PackageID: ref.ID, CurrentVersion: ref.Version, LatestVersion: latest}, nil
}

// PrintNotice prints the update notice for info to w.
func PrintNotice(w io.Writer, info *UpdateInfo) {
	fmt.Fprintf(w, "An update for template package '%s' is available.\n", info.PackageID)
	fmt.Fprintln(w, "To update the package use:")
	fmt.Fprintf(w, "    %s install %s::%s\n", branding.CLIName(), info.PackageID, info.LatestVersion)
}
