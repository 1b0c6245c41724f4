// Package registry is the template package manager. It knows the content
// sources (configured folders and installed packages), scans them in
// parallel into one read-only catalog, caches scan results by source
// modification time, and installs or uninstalls packages from folders,
// archives, the package feed, and git repositories.
package registry
