// Package mount opens content sources as browsable file trees. A source is
// either a folder or a zip archive (.zip or .nupkg); both are exposed as an
// fs.FS rooted at the source.
package mount

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/mitchellh/go-homedir"
)

// Kind classifies a mount point.
type Kind string

const (
	KindFolder  Kind = "folder"
	KindArchive Kind = "archive"
)

// archiveExts are the file extensions mounted as zip archives.
var archiveExts = []string{".zip", ".nupkg"}

// MountPoint is an opened content source.
type MountPoint struct {
	uri    string
	kind   Kind
	fsys   fs.FS
	closer io.Closer
}

// URI returns the normalised source location.
func (m *MountPoint) URI() string { return m.uri }

// Kind returns the mount point kind.
func (m *MountPoint) Kind() Kind { return m.kind }

// FS returns the source tree. Paths are slash-separated and relative to the
// source root.
func (m *MountPoint) FS() fs.FS { return m.fsys }

// ReadFile reads a file from the source tree.
func (m *MountPoint) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(m.fsys, name)
}

// Close releases resources held by the mount point.
func (m *MountPoint) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

// Normalize expands ~ and makes uri absolute.
func Normalize(uri string) (string, error) {
	expanded, err := homedir.Expand(uri)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", uri, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", uri, err)
	}
	return abs, nil
}

// IsArchive reports whether path names a mountable archive.
func IsArchive(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range archiveExts {
		if ext == a {
			return true
		}
	}
	return false
}

// Exists reports whether uri can be mounted.
func Exists(uri string) bool {
	p, err := Normalize(uri)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	return info.IsDir() || IsArchive(p)
}

// Open mounts uri.
func Open(uri string) (*MountPoint, error) {
	p, err := Normalize(uri)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("opening source %s: %w", p, err)
	}

	if info.IsDir() {
		return &MountPoint{uri: p, kind: KindFolder, fsys: os.DirFS(p)}, nil
	}

	if !IsArchive(p) {
		return nil, fmt.Errorf("source %s is neither a folder nor a supported archive", p)
	}

	r, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", p, err)
	}
	return &MountPoint{uri: p, kind: KindArchive, fsys: r, closer: r}, nil
}

// ModTime returns the latest modification time (unix nanoseconds) across the
// source. Archives report the file's own time; folders are walked. Returns 0
// when the source is missing.
func ModTime(uri string) int64 {
	p, err := Normalize(uri)
	if err != nil {
		return 0
	}
	info, err := os.Stat(p)
	if err != nil {
		return 0
	}
	latest := info.ModTime().UnixNano()
	if !info.IsDir() {
		return latest
	}

	_ = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if t := fi.ModTime().UnixNano(); t > latest {
			latest = t
		}
		return nil
	})
	return latest
}
