package registry

import (
	"errors"
	"time"

	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/component"
	"github.com/newt-labs/newt/internal/scanner"
)

// ErrPackageNotFound is returned when an installed package cannot be found.
var ErrPackageNotFound = errors.New("package is not installed")

// PackageKind is how a package was acquired.
type PackageKind string

const (
	KindFolder  PackageKind = "folder"
	KindArchive PackageKind = "archive"
	KindFeed    PackageKind = "feed"
	KindGit     PackageKind = "git"
)

// Source represents a location to scan for templates.
type Source struct {
	Name    string             // package id or configured path
	URI     string             // mountable location
	Package catalog.PackageRef // set for feed packages
}

// InstalledPackage is one entry of packages.yaml.
type InstalledPackage struct {
	ID          string      `yaml:"id"`
	Version     string      `yaml:"version,omitempty"`
	Kind        PackageKind `yaml:"kind"`
	Ref         string      `yaml:"ref"`
	Path        string      `yaml:"path"`
	InstalledAt time.Time   `yaml:"installed_at"`
}

// Managed reports whether the package's files live under the packages
// directory and are removed on uninstall.
func (p InstalledPackage) Managed() bool {
	return p.Kind != KindFolder
}

// Loaded is the merged result of scanning every source.
type Loaded struct {
	Catalog    *catalog.Catalog
	Components []component.Descriptor
	Results    []scanner.ScanResult
}

// InstallResult captures the outcome of an install operation.
type InstallResult struct {
	Package   InstalledPackage
	Templates []catalog.Template
	Replaced  *InstalledPackage
}
