package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ErrNotFound is returned when the feed has no such package or version.
var ErrNotFound = errors.New("package not found in feed")

// PackageIndex is the feed document at <feed>/<id>/index.json.
type PackageIndex struct {
	ID       string         `json:"id"`
	Versions []VersionEntry `json:"versions"`
}

// VersionEntry is one published version of a package.
type VersionEntry struct {
	Version string `json:"version"`
	URL     string `json:"url"`
	SHA256  string `json:"sha256"`
}

// FetchIndex downloads the index for package id.
func (c *Client) FetchIndex(ctx context.Context, id string) (*PackageIndex, error) {
	var idx PackageIndex
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/index.json", c.feedURL, url.PathEscape(id)), &idx); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching package index: %w", err)
	}
	if idx.ID == "" {
		idx.ID = id
	}
	return &idx, nil
}

// getJSON fetches u and decodes the JSON body into v. A 404 yields
// ErrNotFound.
func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("package feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	return nil
}
