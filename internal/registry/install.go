package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/newt-labs/newt/internal/mount"
	"github.com/newt-labs/newt/internal/updater"
)

const (
	gitPrefix      = "git+"
	versionSep     = "::"
	latestVersion  = "latest"
	packageDirPerm = 0755
)

// Install installs ref, which is a folder, an archive, a git repository
// (git+<url>[#ref]), or a feed package id[::version]. Reinstalling the same
// package id replaces the previous entry.
func (m *Manager) Install(ctx context.Context, ref string) (*InstallResult, error) {
	var (
		pkg *InstalledPackage
		err error
	)
	switch {
	case strings.HasPrefix(ref, gitPrefix):
		pkg, err = m.installGit(ctx, strings.TrimPrefix(ref, gitPrefix))
	case mount.Exists(ref):
		pkg, err = m.installLocal(ref)
	default:
		pkg, err = m.installFeed(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	pkg.Ref = ref
	pkg.InstalledAt = time.Now().UTC()

	result := m.scanner.Scan(pkg.Path)
	if len(result.Templates) == 0 {
		if pkg.Managed() {
			os.RemoveAll(pkg.Path)
		}
		return nil, fmt.Errorf("no templates found in %s", ref)
	}

	replaced, err := m.record(*pkg)
	if err != nil {
		return nil, err
	}

	return &InstallResult{Package: *pkg, Templates: result.Templates, Replaced: replaced}, nil
}

// installLocal registers a folder in place or copies an archive into the
// packages directory.
func (m *Manager) installLocal(ref string) (*InstalledPackage, error) {
	p, err := mount.Normalize(ref)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ref, err)
	}
	if info.IsDir() {
		return &InstalledPackage{ID: p, Kind: KindFolder, Path: p}, nil
	}

	if err := os.MkdirAll(m.opts.PackagesDir, packageDirPerm); err != nil {
		return nil, fmt.Errorf("creating packages directory: %w", err)
	}
	dst := filepath.Join(m.opts.PackagesDir, filepath.Base(p))
	if dst != p {
		if err := copyFile(p, dst); err != nil {
			return nil, fmt.Errorf("copying %s: %w", ref, err)
		}
	}
	id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	return &InstalledPackage{ID: id, Kind: KindArchive, Path: dst}, nil
}

// installFeed downloads id[::version] from the package feed.
func (m *Manager) installFeed(ctx context.Context, ref string) (*InstalledPackage, error) {
	if m.opts.Feed == nil {
		return nil, fmt.Errorf("%s is not a folder or archive and no package feed is configured", ref)
	}

	id, version, _ := strings.Cut(ref, versionSep)
	if id == "" {
		return nil, fmt.Errorf("invalid package reference %q", ref)
	}

	idx, err := m.opts.Feed.FetchIndex(ctx, id)
	if err != nil {
		return nil, err
	}

	var entry *updater.VersionEntry
	if version == "" || version == latestVersion {
		entry, err = updater.Latest(idx, false)
	} else {
		entry, err = updater.Select(idx, version)
	}
	if err != nil {
		return nil, err
	}

	path, err := m.opts.Feed.Download(ctx, idx.ID, entry, m.opts.PackagesDir)
	if err != nil {
		return nil, err
	}
	return &InstalledPackage{ID: idx.ID, Version: entry.Version, Kind: KindFeed, Path: path}, nil
}

// record adds or replaces pkg in packages.yaml. A replaced managed package
// has its files removed unless the new package reuses the same path.
func (m *Manager) record(pkg InstalledPackage) (*InstalledPackage, error) {
	pkgs, err := LoadPackages(m.opts.PackagesFile)
	if err != nil {
		return nil, err
	}

	var replaced *InstalledPackage
	out := pkgs[:0]
	for _, p := range pkgs {
		if p.ID == pkg.ID {
			old := p
			replaced = &old
			continue
		}
		out = append(out, p)
	}
	out = append(out, pkg)

	if err := SavePackages(m.opts.PackagesFile, out); err != nil {
		return nil, err
	}
	if replaced != nil && replaced.Managed() && replaced.Path != pkg.Path {
		if err := os.RemoveAll(replaced.Path); err != nil {
			return replaced, fmt.Errorf("removing previous version at %s: %w", replaced.Path, err)
		}
	}
	return replaced, nil
}

// Installed returns the installed packages.
func (m *Manager) Installed() ([]InstalledPackage, error) {
	return LoadPackages(m.opts.PackagesFile)
}

// Uninstall removes the package whose id or path matches idOrPath.
func (m *Manager) Uninstall(idOrPath string) (*InstalledPackage, error) {
	pkgs, err := LoadPackages(m.opts.PackagesFile)
	if err != nil {
		return nil, err
	}

	norm, _ := mount.Normalize(idOrPath)
	idx := -1
	for i, p := range pkgs {
		if p.ID == idOrPath || p.Path == norm || p.ID == norm {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", idOrPath, ErrPackageNotFound)
	}

	removed := pkgs[idx]
	pkgs = append(pkgs[:idx], pkgs[idx+1:]...)
	if err := SavePackages(m.opts.PackagesFile, pkgs); err != nil {
		return nil, err
	}

	if removed.Managed() {
		if err := os.RemoveAll(removed.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &removed, fmt.Errorf("removing %s: %w", removed.Path, err)
		}
	}
	return &removed, nil
}
