package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/newt-labs/newt/internal/component"
	"github.com/newt-labs/newt/internal/output"
	"github.com/newt-labs/newt/internal/scanner"
)

// CachedScans holds scan results keyed by source URI along with the source
// modification time used for invalidation.
type CachedScans struct {
	Sources  map[string]CachedScan `json:"sources"`
	CachedAt time.Time             `json:"cached_at"`
}

// CachedScan is one cached source.
type CachedScan struct {
	ModTime int64              `json:"mod_time"`
	Result  scanner.ScanResult `json:"result"`
}

// loadScanCache reads and parses the cache file. Any failure yields an
// empty cache.
func loadScanCache(path string) *CachedScans {
	empty := &CachedScans{Sources: map[string]CachedScan{}}
	if path == "" {
		return empty
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return empty
	}
	var idx CachedScans
	if err := json.Unmarshal(data, &idx); err != nil {
		output.Debug("ignoring corrupt scan cache", "path", path, "err", err)
		return empty
	}
	if idx.Sources == nil {
		idx.Sources = map[string]CachedScan{}
	}
	return &idx
}

// lookup returns the cached result for uri if its mtime still matches.
// Components are rebuilt from the registry; if that fails the entry is a
// miss.
func (c *CachedScans) lookup(uri string, modTime int64, reg *component.Registry) (scanner.ScanResult, bool) {
	entry, ok := c.Sources[uri]
	if !ok || modTime == 0 || entry.ModTime != modTime {
		return scanner.ScanResult{}, false
	}
	result := entry.Result
	comps := make([]component.Descriptor, 0, len(result.Components))
	for _, d := range result.Components {
		rd, err := d.Rehydrate(reg)
		if err != nil {
			return scanner.ScanResult{}, false
		}
		comps = append(comps, rd)
	}
	result.Components = comps
	return result, true
}

// writeScanCache serializes scan results to disk (best effort).
func writeScanCache(path string, entries map[string]CachedScan) {
	if path == "" {
		return
	}
	idx := CachedScans{Sources: entries, CachedAt: time.Now()}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		output.Debug("could not write scan cache", "path", path, "err", err)
	}
}
