// Package scanner turns a mounted content source into a ScanResult: the
// templates, localizations, and components it contains. Scanning never fails
// as a whole; malformed entries are skipped and an unopenable source yields
// the empty result.
package scanner

import (
	"io/fs"
	"path"
	"strings"

	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/component"
	"github.com/newt-labs/newt/internal/manifest"
	"github.com/newt-labs/newt/internal/mount"
	"github.com/newt-labs/newt/internal/output"
)

// ScanResult is an immutable snapshot of one source. Lists are in discovery
// order.
type ScanResult struct {
	SourceURI     string                 `json:"source_uri"`
	Templates     []catalog.Template     `json:"templates"`
	Localizations []catalog.Localization `json:"localizations"`
	Components    []component.Descriptor `json:"components"`
}

// Empty returns the result for a source that could not be opened or holds
// nothing. Each call returns a fresh value.
func Empty() ScanResult {
	return ScanResult{}
}

// IsEmpty reports whether the result carries no entries.
func (r ScanResult) IsEmpty() bool {
	return len(r.Templates) == 0 && len(r.Localizations) == 0 && len(r.Components) == 0
}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Scanner scans sources, constructing components from a registry.
type Scanner struct {
	registry *component.Registry
}

// New returns a Scanner backed by reg. A nil reg uses the built-ins.
func New(reg *component.Registry) *Scanner {
	if reg == nil {
		reg = component.Builtins()
	}
	return &Scanner{registry: reg}
}

// Scan mounts uri and scans it.
func Scan(uri string) ScanResult {
	return New(nil).Scan(uri)
}

// Scan mounts uri and scans it. An unopenable source yields Empty.
func (s *Scanner) Scan(uri string) ScanResult {
	mp, err := mount.Open(uri)
	if err != nil {
		output.Debug("skipping source", "uri", uri, "err", err)
		return Empty()
	}
	defer mp.Close()
	return s.ScanFS(mp.URI(), mp.FS())
}

// ScanFS scans an already-mounted tree recorded under uri.
func (s *Scanner) ScanFS(uri string, fsys fs.FS) ScanResult {
	result := ScanResult{SourceURI: uri}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			output.Debug("skipping unreadable entry", "uri", uri, "path", p, "err", err)
			if d != nil && d.IsDir() && p != "." {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return fs.SkipDir
			}
			if d.Name() == manifest.ConfigDir {
				s.scanConfigDir(fsys, uri, p, &result)
				return fs.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(d.Name(), manifest.ComponentSuffix) {
			if desc, ok := s.loadComponent(fsys, p); ok {
				result.Components = append(result.Components, desc)
			}
		}
		return nil
	})
	if err != nil {
		output.Debug("scan stopped early", "uri", uri, "err", err)
	}

	return result
}

// scanConfigDir reads the template manifest in a .template.config directory
// and its localizations.
func (s *Scanner) scanConfigDir(fsys fs.FS, uri, dir string, result *ScanResult) {
	root := path.Dir(dir)

	var tpl *catalog.Template
	for _, name := range manifest.TemplateFileNames() {
		p := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			continue
		}
		format, _ := manifest.TemplateFormat(name)
		m, err := manifest.ParseTemplate(data, format)
		if err != nil {
			output.Debug("skipping invalid template", "uri", uri, "path", p, "err", err)
			return
		}
		t := catalog.FromManifest(m, uri, root)
		tpl = &t
		break
	}
	if tpl == nil {
		return
	}
	result.Templates = append(result.Templates, *tpl)

	locDir := path.Join(dir, manifest.LocalizeDir)
	entries, err := fs.ReadDir(fsys, locDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		locale, ok := manifest.LocaleFromFileName(e.Name())
		if e.IsDir() || !ok {
			continue
		}
		p := path.Join(locDir, e.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			output.Debug("skipping unreadable localization", "uri", uri, "path", p, "err", err)
			continue
		}
		l, err := manifest.ParseLocalization(data, locale)
		if err != nil {
			output.Debug("skipping invalid localization", "uri", uri, "path", p, "err", err)
			continue
		}
		result.Localizations = append(result.Localizations, catalog.Localization{
			Identity: tpl.Identity,
			Locale:   l.Locale,
			Strings:  l.Strings,
		})
	}
}

func (s *Scanner) loadComponent(fsys fs.FS, p string) (component.Descriptor, bool) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		output.Debug("skipping unreadable component", "path", p, "err", err)
		return component.Descriptor{}, false
	}
	m, err := manifest.ParseComponent(data)
	if err != nil {
		output.Debug("skipping invalid component", "path", p, "err", err)
		return component.Descriptor{}, false
	}
	kind, err := component.ParseKind(m.Kind)
	if err != nil {
		output.Debug("skipping component", "path", p, "err", err)
		return component.Descriptor{}, false
	}

	desc, err := component.Descriptor{
		Path:    p,
		Kind:    kind,
		ID:      m.ID,
		Type:    m.Type,
		Options: m.Options,
	}.Rehydrate(s.registry)
	if err != nil {
		output.Debug("skipping component", "path", p, "err", err)
		return component.Descriptor{}, false
	}
	return desc, true
}
