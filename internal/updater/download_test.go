package updater

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func sha(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func TestDownload(t *testing.T) {
	content := []byte("PK fake package archive")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	c := New(server.URL, WithHTTPClient(server.Client()))
	destDir := t.TempDir()

	entry := &VersionEntry{Version: "1.2.0", URL: server.URL + "/pkg.zip", SHA256: sha(content)}
	path, err := c.Download(context.Background(), "Newt.Templates", entry, destDir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if filepath.Base(path) != "Newt.Templates.1.2.0.zip" {
		t.Errorf("file name = %s", filepath.Base(path))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch")
	}
}

func TestDownload_ChecksumMismatchKeepsExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tampered"))
	}))
	defer server.Close()

	c := New(server.URL, WithHTTPClient(server.Client()))
	destDir := t.TempDir()
	existing := filepath.Join(destDir, ArchiveName("Newt.Templates", "1.2.0"))
	if err := os.WriteFile(existing, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	entry := &VersionEntry{Version: "1.2.0", URL: server.URL + "/pkg.zip", SHA256: sha([]byte("original"))}
	if _, err := c.Download(context.Background(), "Newt.Templates", entry, destDir); err == nil {
		t.Fatal("expected checksum mismatch error")
	}

	got, err := os.ReadFile(existing)
	if err != nil || string(got) != "original" {
		t.Errorf("existing archive changed: %q, %v", got, err)
	}
	entries, _ := os.ReadDir(destDir)
	if len(entries) != 1 {
		t.Errorf("download left %d entries behind, want only the existing archive", len(entries))
	}
}

func TestDownload_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, WithHTTPClient(server.Client()))
	entry := &VersionEntry{Version: "1.0.0", URL: server.URL + "/pkg.zip"}
	if _, err := c.Download(context.Background(), "x", entry, t.TempDir()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestVerifyChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.zip")
	data := []byte("archive bytes")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if err := VerifyChecksum(path, sha(data)); err != nil {
		t.Errorf("VerifyChecksum failed: %v", err)
	}
	if err := VerifyChecksum(path, sha([]byte("other"))); err == nil {
		t.Error("expected checksum mismatch")
	}
}
