package catalog

import "strings"

// ContainsFold reports whether query is a case-insensitive substring of one
// of t's short names or of its display name.
func ContainsFold(t Template, query string) bool {
	q := strings.ToLower(query)
	for _, sn := range t.ShortNames {
		if strings.Contains(strings.ToLower(sn), q) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(t.Name), q)
}

// HasClassifications reports whether every tag appears in t's
// classifications, ignoring case.
func HasClassifications(t Template, tags []string) bool {
	for _, tag := range tags {
		found := false
		for _, c := range t.Classifications {
			if equalFold(c, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
