package resolve

import (
	"sort"
	"strings"

	"github.com/newt-labs/newt/internal/catalog"
)

// Kind is the tag of an Outcome.
type Kind int

const (
	NoMatch Kind = iota
	Unambiguous
	AmbiguousGroup
	AmbiguousPrecedence
	InvalidParameters
)

func (k Kind) String() string {
	switch k {
	case Unambiguous:
		return "unambiguous"
	case AmbiguousGroup:
		return "ambiguous-group"
	case AmbiguousPrecedence:
		return "ambiguous-precedence"
	case InvalidParameters:
		return "invalid-parameters"
	default:
		return "no-match"
	}
}

// Variant distinguishes the two AmbiguousPrecedence diagnostics.
type Variant int

const (
	VariantNone Variant = iota
	// SamePrecedence: distinct identities tied at the top precedence.
	SamePrecedence
	// ExactShortName: only partial name matches; the user must type a full
	// short name.
	ExactShortName
)

// Outcome is the result of resolving a query.
type Outcome struct {
	Kind    Kind
	Variant Variant
	Query   Query
	// Winner is set for Unambiguous.
	Winner *MatchInfo
	// GroupIdentity is set for AmbiguousGroup.
	GroupIdentity string
	// Candidates lists the conflicting templates, sorted by identity.
	Candidates []MatchInfo
	// Invalid lists the option problems for InvalidParameters.
	Invalid []ParamMatch
	// Template is the template the invalid options were checked against.
	Template *catalog.Template
}

// group is one identity group after in-group narrowing.
type group struct {
	identity string
	kept     []MatchInfo
	top      int
	winner   *MatchInfo
}

func (g group) viable() bool    { return len(g.kept) > 0 }
func (g group) ambiguous() bool { return g.viable() && g.winner == nil }

// rule is one row of the decision table. The first row whose when reports
// true decides the outcome.
type rule struct {
	name string
	when func(s *state) bool
	then func(s *state) Outcome
}

// state is what the decision table looks at.
type state struct {
	query    Query
	all      []MatchInfo
	exact    []MatchInfo
	groups   []group
	topGroup []group
}

var decisionTable = []rule{
	{
		name: "no candidates",
		when: func(s *state) bool { return len(s.all) == 0 },
		then: func(s *state) Outcome { return Outcome{Kind: NoMatch, Query: s.query} },
	},
	{
		name: "partial matches only",
		when: func(s *state) bool { return len(s.exact) == 0 },
		then: func(s *state) Outcome {
			return Outcome{Kind: AmbiguousPrecedence, Variant: ExactShortName, Query: s.query, Candidates: sorted(s.all)}
		},
	},
	{
		name: "no group accepts the options",
		when: func(s *state) bool { return len(s.topGroup) == 0 },
		then: func(s *state) Outcome {
			best := bestCandidate(s.exact)
			return Outcome{Kind: InvalidParameters, Query: s.query, Invalid: best.InvalidParams(), Template: &best.Template}
		},
	},
	{
		name: "single top group with a winner",
		when: func(s *state) bool { return len(s.topGroup) == 1 && !s.topGroup[0].ambiguous() },
		then: func(s *state) Outcome {
			w := *s.topGroup[0].winner
			return Outcome{Kind: Unambiguous, Query: s.query, Winner: &w}
		},
	},
	{
		name: "single top group, ambiguous inside",
		when: func(s *state) bool { return len(s.topGroup) == 1 },
		then: func(s *state) Outcome {
			g := s.topGroup[0]
			return Outcome{Kind: AmbiguousGroup, Query: s.query, GroupIdentity: g.identity, Candidates: topOf(g)}
		},
	},
	{
		name: "several groups tied at the top precedence",
		when: func(s *state) bool { return true },
		then: func(s *state) Outcome {
			var cands []MatchInfo
			for _, g := range s.topGroup {
				cands = append(cands, topOf(g)...)
			}
			return Outcome{Kind: AmbiguousPrecedence, Variant: SamePrecedence, Query: s.query, Candidates: sorted(cands)}
		},
	},
}

// Resolve matches q against templates and decides the outcome. The result
// does not depend on the order of templates.
func Resolve(templates []catalog.Template, q Query) Outcome {
	return Decide(Match(templates, q), q)
}

// Decide applies the decision table to matched candidates.
func Decide(candidates []MatchInfo, q Query) Outcome {
	s := &state{query: q, all: candidates}
	for _, c := range candidates {
		if c.Name == Exact {
			s.exact = append(s.exact, c)
		}
	}
	s.groups = buildGroups(s.exact, q)
	s.topGroup = topGroups(s.groups)

	for _, r := range decisionTable {
		if r.when(s) {
			return r.then(s)
		}
	}
	return Outcome{Kind: NoMatch, Query: q}
}

// buildGroups partitions candidates by identity group and narrows each group
// by option validity, then by the default language.
func buildGroups(candidates []MatchInfo, q Query) []group {
	byID := make(map[string][]MatchInfo)
	var ids []string
	for _, c := range candidates {
		id := c.Template.GroupIdentity
		if id == "" {
			id = c.Template.Identity
		}
		if _, ok := byID[id]; !ok {
			ids = append(ids, id)
		}
		byID[id] = append(byID[id], c)
	}
	sort.Strings(ids)

	groups := make([]group, 0, len(ids))
	for _, id := range ids {
		g := group{identity: id}
		for _, c := range byID[id] {
			if c.ParamsValid() {
				g.kept = append(g.kept, c)
			}
		}
		if len(g.kept) > 1 && q.Language == "" && q.DefaultLanguage != "" {
			var preferred []MatchInfo
			for _, c := range g.kept {
				if strings.EqualFold(c.Template.Language, q.DefaultLanguage) {
					preferred = append(preferred, c)
				}
			}
			if len(preferred) > 0 {
				g.kept = preferred
			}
		}
		if g.viable() {
			top := topOf(g)
			g.top = top[0].Template.Precedence
			if len(top) == 1 {
				g.winner = &top[0]
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// topOf returns the group's candidates at its highest precedence.
func topOf(g group) []MatchInfo {
	if len(g.kept) == 0 {
		return nil
	}
	hi := g.kept[0].Template.Precedence
	for _, c := range g.kept[1:] {
		if c.Template.Precedence > hi {
			hi = c.Template.Precedence
		}
	}
	var out []MatchInfo
	for _, c := range g.kept {
		if c.Template.Precedence == hi {
			out = append(out, c)
		}
	}
	return sorted(out)
}

// topGroups returns the viable groups sharing the highest precedence.
func topGroups(groups []group) []group {
	var out []group
	for _, g := range groups {
		if !g.viable() {
			continue
		}
		switch {
		case len(out) == 0 || g.top == out[0].top:
			out = append(out, g)
		case g.top > out[0].top:
			out = []group{g}
		}
	}
	return out
}

// bestCandidate picks the candidate whose option problems are reported when
// no group accepts the options: highest precedence, then lowest identity.
func bestCandidate(ms []MatchInfo) MatchInfo {
	cands := sorted(ms)
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Template.Precedence > best.Template.Precedence {
			best = c
		}
	}
	return best
}

func sorted(ms []MatchInfo) []MatchInfo {
	out := make([]MatchInfo, len(ms))
	copy(out, ms)
	sortByIdentity(out)
	return out
}
