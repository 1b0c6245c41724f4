package catalog

import "sort"

// Catalog is the merged, read-only set of templates from every source.
type Catalog struct {
	templates []Template
}

// New builds a catalog from templates, applying the best localization per
// template identity for locale.
func New(templates []Template, localizations []Localization, locale string) *Catalog {
	byIdentity := make(map[string][]Localization)
	for _, l := range localizations {
		byIdentity[l.Identity] = append(byIdentity[l.Identity], l)
	}

	merged := make([]Template, 0, len(templates))
	for _, t := range templates {
		if l, ok := MatchLocale(byIdentity[t.Identity], locale); ok {
			t = Localize(t, l)
		}
		merged = append(merged, t)
	}
	return &Catalog{templates: merged}
}

// Templates returns the catalog contents in discovery order.
func (c *Catalog) Templates() []Template {
	if c == nil {
		return nil
	}
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.templates)
}

// Filter holds the criteria used by listings.
type Filter struct {
	Name     string
	Language string
	Type     string
	Tags     []string
}

// List returns templates matching f, sorted by name then identity.
// Name is matched as a case-insensitive substring of a short name or the
// display name.
func (c *Catalog) List(f Filter) []Template {
	var out []Template
	for _, t := range c.Templates() {
		if f.Name != "" && !ContainsFold(t, f.Name) {
			continue
		}
		if f.Language != "" && !equalFold(t.Language, f.Language) {
			continue
		}
		if f.Type != "" && !equalFold(t.Type, f.Type) {
			continue
		}
		if !HasClassifications(t, f.Tags) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Identity < out[j].Identity
	})
	return out
}
