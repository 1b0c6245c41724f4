package userdata

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureLayout creates the home, packages, and cache directories if missing.
// It is idempotent.
func EnsureLayout() error {
	root, err := GetRoot()
	if err != nil {
		return err
	}
	for _, dir := range []string{root, filepath.Join(root, PackagesDir), filepath.Join(root, CacheDir)} {
		if err := os.MkdirAll(dir, DirPermNormal); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
