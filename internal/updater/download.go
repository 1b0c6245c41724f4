package updater

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Download fetches the archive for entry into destDir as <id>.<version>.zip.
// The body is staged in a temporary file and only renamed into place once
// the checksum published by the feed matches, so a failed download never
// replaces an archive that is already there.
func (c *Client) Download(ctx context.Context, id string, entry *VersionEntry, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.URL, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(destDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing download: %w", err)
	}
	if entry.SHA256 != "" {
		if err := VerifyChecksum(tmp.Name(), entry.SHA256); err != nil {
			return "", fmt.Errorf("verifying %s %s: %w", id, entry.Version, err)
		}
	}

	destPath := filepath.Join(destDir, ArchiveName(id, entry.Version))
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return "", fmt.Errorf("finalizing download: %w", err)
	}
	return destPath, nil
}

// VerifyChecksum compares the sha256 of the file at path with expected (hex).
func VerifyChecksum(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("computing checksum: %w", err)
	}
	if actual := hex.EncodeToString(h.Sum(nil)); !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

// ArchiveName returns the local file name of a downloaded package.
func ArchiveName(id, version string) string {
	return fmt.Sprintf("%s.%s.zip", id, strings.TrimPrefix(version, "v"))
}
