package registry

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/component"
	"github.com/newt-labs/newt/internal/mount"
	"github.com/newt-labs/newt/internal/output"
	"github.com/newt-labs/newt/internal/scanner"
	"github.com/newt-labs/newt/internal/updater"
)

// Options configures a Manager.
type Options struct {
	// PackagesDir holds managed package files.
	PackagesDir string
	// PackagesFile is the path of packages.yaml.
	PackagesFile string
	// CachePath is the scan cache file; empty disables caching.
	CachePath string
	// Sources are extra folders or archives to mount, in priority order.
	Sources []string
	// Locale selects localizations.
	Locale string
	// Feed is the package feed client used by feed installs.
	Feed *updater.Client
	// Components constructs discovered components; nil uses the built-ins.
	Components *component.Registry
}

// Manager manages template sources and packages.
type Manager struct {
	opts    Options
	scanner *scanner.Scanner
}

// NewManager creates a Manager.
func NewManager(opts Options) *Manager {
	if opts.Components == nil {
		opts.Components = component.Builtins()
	}
	return &Manager{opts: opts, scanner: scanner.New(opts.Components)}
}

// Sources returns configured sources followed by installed packages.
func (m *Manager) Sources() ([]Source, error) {
	var sources []Source
	seen := make(map[string]bool)

	for _, s := range m.opts.Sources {
		uri, err := mount.Normalize(s)
		if err != nil {
			output.Debug("skipping source", "source", s, "err", err)
			continue
		}
		if seen[uri] {
			continue
		}
		seen[uri] = true
		sources = append(sources, Source{Name: s, URI: uri})
	}

	pkgs, err := LoadPackages(m.opts.PackagesFile)
	if err != nil {
		return nil, err
	}
	for _, p := range pkgs {
		if seen[p.Path] {
			continue
		}
		seen[p.Path] = true
		src := Source{Name: p.ID, URI: p.Path}
		if p.Kind == KindFeed {
			src.Package = catalog.PackageRef{ID: p.ID, Version: p.Version}
		}
		sources = append(sources, src)
	}

	return sources, nil
}

// Load scans every source in parallel and merges the results into a
// catalog. Results keep source order regardless of completion order.
func (m *Manager) Load(ctx context.Context) (*Loaded, error) {
	sources, err := m.Sources()
	if err != nil {
		return nil, err
	}

	cache := loadScanCache(m.opts.CachePath)
	results := make([]scanner.ScanResult, len(sources))
	modTimes := make([]int64, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			modTimes[i] = mount.ModTime(src.URI)
			if r, ok := cache.lookup(src.URI, modTimes[i], m.opts.Components); ok {
				results[i] = r
				return nil
			}
			results[i] = m.scanner.Scan(src.URI)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning sources: %w", err)
	}

	entries := make(map[string]CachedScan, len(sources))
	for i, src := range sources {
		if modTimes[i] != 0 {
			entries[src.URI] = CachedScan{ModTime: modTimes[i], Result: results[i]}
		}
	}
	writeScanCache(m.opts.CachePath, entries)

	var (
		templates []catalog.Template
		locs      []catalog.Localization
		comps     []component.Descriptor
	)
	for i, r := range results {
		for _, t := range r.Templates {
			templates = append(templates, t.WithPackage(sources[i].Package))
		}
		locs = append(locs, r.Localizations...)
		comps = append(comps, r.Components...)
	}

	return &Loaded{
		Catalog:    catalog.New(templates, locs, m.opts.Locale),
		Components: comps,
		Results:    results,
	}, nil
}
