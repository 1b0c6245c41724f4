// Package updater talks to the template package feed. It fetches package
// indexes, selects the latest version with semver, downloads and verifies
// package archives, and answers "is a newer version of this package
// available?" with a daily cache. Update checks are best-effort.
package updater
