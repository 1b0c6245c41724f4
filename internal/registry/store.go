package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

type packagesFile struct {
	Packages []InstalledPackage `yaml:"packages"`
}

// LoadPackages reads packages.yaml. A missing file means nothing is
// installed.
func LoadPackages(path string) ([]InstalledPackage, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f packagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f.Packages, nil
}

// SavePackages writes packages.yaml.
func SavePackages(path string, pkgs []InstalledPackage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(packagesFile{Packages: pkgs})
	if err != nil {
		return fmt.Errorf("marshaling packages: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalizing %s: %w", path, err)
	}
	return nil
}
