package registry

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/newt-labs/newt/internal/userdata"
)

// tmpSuffix is appended to the target dir during an atomic clone.
const tmpSuffix = ".tmp"

// installGit clones repo (optionally "<url>#<ref>") and snapshots it into
// the packages directory without its .git metadata.
func (m *Manager) installGit(ctx context.Context, repo string) (*InstalledPackage, error) {
	if err := ensureGit(); err != nil {
		return nil, err
	}

	repoURL, ref, _ := strings.Cut(repo, "#")
	name := repoName(repoURL)
	if name == "" {
		return nil, fmt.Errorf("cannot derive a package name from %q", repoURL)
	}

	targetDir := filepath.Join(m.opts.PackagesDir, "git", name)
	if err := clone(ctx, repoURL, ref, targetDir); err != nil {
		return nil, err
	}
	return &InstalledPackage{ID: repoURL, Version: ref, Kind: KindGit, Path: targetDir}, nil
}

// clone performs a shallow clone of repoURL into targetDir.
//
// The clone is atomic: it writes to a .tmp directory first, copies the
// working tree into place on success, and always removes the .tmp
// directory.
func clone(ctx context.Context, repoURL, ref, targetDir string) error {
	tmpDir := targetDir + tmpSuffix

	// Clean up any leftover tmp dir from a previous failed attempt.
	_ = os.RemoveAll(tmpDir)
	defer os.RemoveAll(tmpDir)

	if err := os.MkdirAll(filepath.Dir(tmpDir), userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	args := []string{"clone", "--depth=1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, repoURL, tmpDir)

	cmd := exec.CommandContext(ctx, "git", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("cloning %s: %w\n%s", repoURL, err, strings.TrimSpace(string(output)))
	}

	if err := os.RemoveAll(targetDir); err != nil {
		return fmt.Errorf("removing existing package dir: %w", err)
	}
	if err := copyDir(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(targetDir)
		return fmt.Errorf("finalizing clone of %s: %w", repoURL, err)
	}
	return nil
}

// repoName derives a directory name from a repository URL or path.
func repoName(repoURL string) string {
	trimmed := strings.TrimRight(filepath.ToSlash(repoURL), "/")
	base := path.Base(trimmed)
	if i := strings.LastIndex(base, ":"); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".git")
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// ensureGit checks that git is available on PATH.
func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
