package catalog

import (
	"strings"

	"golang.org/x/text/language"
)

// Localization overlays localized strings onto a template.
type Localization struct {
	// Identity of the template the strings apply to.
	Identity string
	Locale   string
	Strings  map[string]string
}

// Localize returns a copy of t with the strings of l applied. Keys that l
// does not define keep their base values.
func Localize(t Template, l Localization) Template {
	if v := l.Strings["name"]; v != "" {
		t.Name = v
	}
	if v := l.Strings["description"]; v != "" {
		t.Description = v
	}
	if v := l.Strings["author"]; v != "" {
		t.Author = v
	}

	params := make([]Parameter, len(t.Parameters))
	for i, p := range t.Parameters {
		if v := l.Strings["symbols/"+p.Name+"/description"]; v != "" {
			p.Description = v
		}
		if len(p.Choices) > 0 {
			choices := make([]Choice, len(p.Choices))
			for j, c := range p.Choices {
				if v := l.Strings["symbols/"+p.Name+"/choices/"+c.Value+"/description"]; v != "" {
					c.Description = v
				}
				choices[j] = c
			}
			p.Choices = choices
		}
		params[i] = p
	}
	t.Parameters = params

	actions := make([]PostAction, len(t.PostActions))
	for i, pa := range t.PostActions {
		if v := l.Strings["postActions/"+pa.ActionID+"/description"]; v != "" {
			pa.Description = v
		}
		actions[i] = pa
	}
	t.PostActions = actions

	return t
}

// MatchLocale picks the localization that best fits preferred. ok is false
// when none is a reasonable match or preferred is empty.
func MatchLocale(locs []Localization, preferred string) (Localization, bool) {
	if len(locs) == 0 || preferred == "" {
		return Localization{}, false
	}
	want, err := language.Parse(normalizeLocale(preferred))
	if err != nil {
		return Localization{}, false
	}

	tags := make([]language.Tag, 0, len(locs))
	idx := make([]int, 0, len(locs))
	for i, l := range locs {
		tag, err := language.Parse(normalizeLocale(l.Locale))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		idx = append(idx, i)
	}
	if len(tags) == 0 {
		return Localization{}, false
	}

	_, i, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return Localization{}, false
	}
	return locs[idx[i]], true
}

// normalizeLocale converts POSIX forms such as de_DE.UTF-8 to BCP 47.
func normalizeLocale(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "_", "-")
}
