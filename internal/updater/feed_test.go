package updater

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Newt.Templates/index.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchIndex(t *testing.T) {
	server := feedServer(t, `{"id":"Newt.Templates","versions":[{"version":"1.0.0","url":"u1"},{"version":"1.1.0","url":"u2"}]}`)
	c := New(server.URL+"/", WithHTTPClient(server.Client()))

	idx, err := c.FetchIndex(context.Background(), "Newt.Templates")
	if err != nil {
		t.Fatalf("FetchIndex failed: %v", err)
	}
	if len(idx.Versions) != 2 {
		t.Errorf("versions = %d, want 2", len(idx.Versions))
	}

	_, err = c.FetchIndex(context.Background(), "Missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
