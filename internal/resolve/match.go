package resolve

import (
	"sort"
	"strconv"
	"strings"

	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/manifest"
)

// Disposition is how one axis of a template compares to the query.
type Disposition int

const (
	// Unspecified means the user or the template left the axis open.
	Unspecified Disposition = iota
	Exact
	// Partial applies to the name axis only: the query is a substring of a
	// short name or of the display name.
	Partial
	Mismatch
)

func (d Disposition) String() string {
	switch d {
	case Exact:
		return "exact"
	case Partial:
		return "partial"
	case Mismatch:
		return "mismatch"
	default:
		return "unspecified"
	}
}

// ParamStatus is the validation result of one option for one template.
type ParamStatus int

const (
	ParamValid ParamStatus = iota
	ParamUnknown
	ParamInvalidValue
	ParamAmbiguousValue
)

// ParamMatch records how one option applies to one template.
type ParamMatch struct {
	Arg    Arg
	Status ParamStatus
	// Parameter is the matched template parameter (zero for ParamUnknown).
	Parameter catalog.Parameter
	// Value is the canonical value when Status is ParamValid.
	Value string
	// Choices lists the values to offer: all choices for an invalid value,
	// the prefix matches for an ambiguous one.
	Choices []catalog.Choice
}

// MatchInfo binds a template to its per-axis dispositions for one query.
type MatchInfo struct {
	Template catalog.Template
	Name     Disposition
	Language Disposition
	Type     Disposition
	Context  Disposition
	Params   []ParamMatch
}

// IsMismatch reports whether any hard axis excludes the template.
func (m MatchInfo) IsMismatch() bool {
	return m.Name == Mismatch || m.Language == Mismatch || m.Type == Mismatch || m.Context == Mismatch
}

// ParamsValid reports whether every option is valid for the template.
func (m MatchInfo) ParamsValid() bool {
	for _, p := range m.Params {
		if p.Status != ParamValid {
			return false
		}
	}
	return true
}

// InvalidParams returns the options that are not valid for the template.
func (m MatchInfo) InvalidParams() []ParamMatch {
	var out []ParamMatch
	for _, p := range m.Params {
		if p.Status != ParamValid {
			out = append(out, p)
		}
	}
	return out
}

// Values returns canonical parameter values keyed by parameter name.
func (m MatchInfo) Values() map[string]string {
	values := make(map[string]string)
	for _, p := range m.Params {
		if p.Status == ParamValid {
			values[p.Parameter.Name] = p.Value
		}
	}
	return values
}

// Match scores every template against q and returns those with no hard
// mismatch, in catalog order.
func Match(templates []catalog.Template, q Query) []MatchInfo {
	var out []MatchInfo
	for _, t := range templates {
		mi := MatchInfo{
			Template: t,
			Name:     matchName(t, q.Name),
			Language: matchAttr(t.Language, q.Language),
			Type:     matchAttr(t.Type, q.Type),
			Context:  matchContext(t, q.Tags),
		}
		if mi.IsMismatch() {
			continue
		}
		for _, arg := range q.Args {
			mi.Params = append(mi.Params, matchParam(t, arg))
		}
		out = append(out, mi)
	}
	return out
}

func matchName(t catalog.Template, name string) Disposition {
	if name == "" {
		return Mismatch
	}
	if t.HasShortName(name) {
		return Exact
	}
	if catalog.ContainsFold(t, name) {
		return Partial
	}
	return Mismatch
}

// matchAttr compares a template attribute to the query. A template that does
// not declare the attribute is never excluded by it.
func matchAttr(have, want string) Disposition {
	if want == "" || have == "" {
		return Unspecified
	}
	if strings.EqualFold(have, want) {
		return Exact
	}
	return Mismatch
}

func matchContext(t catalog.Template, tags []string) Disposition {
	if len(tags) == 0 {
		return Unspecified
	}
	if catalog.HasClassifications(t, tags) {
		return Exact
	}
	return Mismatch
}

// matchParam validates one option against a template's parameters.
func matchParam(t catalog.Template, arg Arg) ParamMatch {
	param, ok := findParameter(t, arg.Name)
	if !ok {
		return ParamMatch{Arg: arg, Status: ParamUnknown}
	}
	pm := ParamMatch{Arg: arg, Parameter: param}

	switch param.DataType {
	case manifest.DataTypeChoice:
		return matchChoice(pm)
	case manifest.DataTypeBool:
		if !arg.HasValue {
			pm.Value = "true"
			return pm
		}
		b, err := strconv.ParseBool(arg.Value)
		if err != nil {
			pm.Status = ParamInvalidValue
			return pm
		}
		pm.Value = strconv.FormatBool(b)
	case manifest.DataTypeInt:
		n, err := strconv.Atoi(arg.Value)
		if err != nil {
			pm.Status = ParamInvalidValue
			return pm
		}
		pm.Value = strconv.Itoa(n)
	default:
		pm.Value = arg.Value
	}
	return pm
}

// matchChoice accepts an exact choice or a unique prefix of one, ignoring
// case.
func matchChoice(pm ParamMatch) ParamMatch {
	value := strings.ToLower(pm.Arg.Value)
	var prefixed []catalog.Choice
	for _, c := range pm.Parameter.Choices {
		lc := strings.ToLower(c.Value)
		if lc == value {
			pm.Value = c.Value
			return pm
		}
		if value != "" && strings.HasPrefix(lc, value) {
			prefixed = append(prefixed, c)
		}
	}

	switch len(prefixed) {
	case 0:
		pm.Status = ParamInvalidValue
		pm.Choices = pm.Parameter.Choices
	case 1:
		pm.Value = prefixed[0].Value
	default:
		pm.Status = ParamAmbiguousValue
		pm.Choices = prefixed
	}
	return pm
}

// findParameter looks a parameter up by name, ignoring case and dashes so
// --skip-restore finds skipRestore.
func findParameter(t catalog.Template, name string) (catalog.Parameter, bool) {
	if p, ok := t.Parameter(name); ok {
		return p, true
	}
	want := foldName(name)
	for _, p := range t.Parameters {
		if foldName(p.Name) == want {
			return p, true
		}
	}
	return catalog.Parameter{}, false
}

func foldName(s string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
}

// sortByIdentity orders candidates deterministically.
func sortByIdentity(ms []MatchInfo) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Template.Identity != ms[j].Template.Identity {
			return ms[i].Template.Identity < ms[j].Template.Identity
		}
		return ms[i].Template.SourceURI < ms[j].Template.SourceURI
	})
}
