package updater

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// parseVersion accepts an optional leading "v".
func parseVersion(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}

// CompareVersions returns -1, 0 or 1 as current is older than, equal to, or
// newer than latest.
func CompareVersions(current, latest string) (int, error) {
	cv, err := parseVersion(current)
	if err != nil {
		return 0, fmt.Errorf("parsing current version %q: %w", current, err)
	}
	lv, err := parseVersion(latest)
	if err != nil {
		return 0, fmt.Errorf("parsing latest version %q: %w", latest, err)
	}
	return cv.Compare(lv), nil
}

// IsUpdateAvailable reports whether latest is newer than current.
func IsUpdateAvailable(current, latest string) (bool, error) {
	cmp, err := CompareVersions(current, latest)
	if err != nil {
		return false, err
	}
	return cmp < 0, nil
}

// IsPrerelease reports whether version carries a prerelease suffix.
// Unparseable versions are not prereleases.
func IsPrerelease(version string) bool {
	v, err := parseVersion(version)
	return err == nil && v.Prerelease() != ""
}

// Latest returns the highest version in idx. Prereleases are ignored unless
// includePrerelease is set. Entries with unparseable versions are skipped.
func Latest(idx *PackageIndex, includePrerelease bool) (*VersionEntry, error) {
	best := highest(idx, func(v *semver.Version) bool {
		return includePrerelease || v.Prerelease() == ""
	})
	if best == nil {
		return nil, fmt.Errorf("%s has no installable versions: %w", idx.ID, ErrNotFound)
	}
	return best, nil
}

// Select returns the entry for want, which is either an exact version
// ("1.2.0") or a range ("^1.2", "~1.2.3", "1.x", ">= 1.0, < 2.0"). A range
// picks the highest matching version.
func Select(idx *PackageIndex, want string) (*VersionEntry, error) {
	if exact, err := parseVersion(want); err == nil && !strings.ContainsAny(want, "xX*") {
		if e := highest(idx, exact.Equal); e != nil {
			return e, nil
		}
		return nil, fmt.Errorf("%s::%s: %w", idx.ID, want, ErrNotFound)
	}

	c, err := semver.NewConstraint(want)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", want, err)
	}
	if e := highest(idx, c.Check); e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("%s::%s: no version satisfies the range: %w", idx.ID, want, ErrNotFound)
}

func highest(idx *PackageIndex, accept func(*semver.Version) bool) *VersionEntry {
	var (
		best  *VersionEntry
		bestV *semver.Version
	)
	for i := range idx.Versions {
		v, err := parseVersion(idx.Versions[i].Version)
		if err != nil || !accept(v) {
			continue
		}
		if bestV == nil || v.GreaterThan(bestV) {
			best, bestV = &idx.Versions[i], v
		}
	}
	return best
}
