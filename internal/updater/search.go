package updater

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// PackageSummary is one entry of the feed catalog at <feed>/index.json.
type PackageSummary struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Latest      string   `json:"latest"`
	Templates   []string `json:"templates"`
}

// Search fetches the feed catalog and returns the packages whose id,
// description or template short names contain query, ignoring case. An
// empty query returns every package. Results are sorted by id.
func (c *Client) Search(ctx context.Context, query string) ([]PackageSummary, error) {
	var all []PackageSummary
	if err := c.getJSON(ctx, c.feedURL+"/index.json", &all); err != nil {
		return nil, fmt.Errorf("fetching feed catalog: %w", err)
	}

	q := strings.ToLower(query)
	var out []PackageSummary
	for _, p := range all {
		if q == "" || matchesSummary(p, q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matchesSummary(p PackageSummary, q string) bool {
	if strings.Contains(strings.ToLower(p.ID), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, t := range p.Templates {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
