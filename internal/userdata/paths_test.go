package userdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetRoot_EnvOverride(t *testing.T) {
	t.Setenv("NEWT_HOME", "/tmp/test-newt")
	root, err := GetRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != "/tmp/test-newt" {
		t.Errorf("expected /tmp/test-newt, got %s", root)
	}
}

func TestGetRoot_Default(t *testing.T) {
	t.Setenv("NEWT_HOME", "")
	root, err := GetRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".newt")
	if root != expected {
		t.Errorf("expected %s, got %s", expected, root)
	}
}

func TestDerivedPaths(t *testing.T) {
	t.Setenv("NEWT_HOME", "/tmp/nh")

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"packages root", GetPackagesRoot, "/tmp/nh/packages"},
		{"packages file", GetPackagesFile, "/tmp/nh/packages.yaml"},
		{"aliases file", GetAliasesFile, "/tmp/nh/aliases.yaml"},
		{"cache dir", GetCacheDir, "/tmp/nh/cache"},
		{"scan cache", GetScanCachePath, "/tmp/nh/cache/scan-cache.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEnsureLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "home")
	t.Setenv("NEWT_HOME", root)

	if err := EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout: %v", err)
	}
	// Second call must be a no-op.
	if err := EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout (second call): %v", err)
	}
	for _, dir := range []string{root, filepath.Join(root, PackagesDir), filepath.Join(root, CacheDir)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}
