// Package resolve matches a user query against the template catalog and
// decides which template, if any, to instantiate. Matching scores every
// template along independent axes; resolution groups the survivors by
// identity group and applies precedence through an explicit decision table.
// The resulting Outcome carries everything needed to render diagnostics.
package resolve

import "strings"

// Query is what the user asked for.
type Query struct {
	// Name is the positional short name.
	Name     string
	Language string
	Type     string
	// Tags must all appear in a template's classifications.
	Tags []string
	// Args are template parameter options in the order given.
	Args []Arg
	// DefaultLanguage collapses groups that are ambiguous only by language
	// when Language is empty.
	DefaultLanguage string
}

// Arg is one template option as typed on the command line.
type Arg struct {
	// Flag is the option as typed, e.g. "--framework".
	Flag string
	// Name is Flag without leading dashes.
	Name  string
	Value string
	// HasValue is false for bare flags such as --no-https.
	HasValue bool
}

// NewArg builds an Arg from a typed flag and its value.
func NewArg(flag, value string, hasValue bool) Arg {
	return Arg{
		Flag:     flag,
		Name:     strings.TrimLeft(flag, "-"),
		Value:    value,
		HasValue: hasValue,
	}
}

// Filters describes the query's non-name axes for messages.
func (q Query) Filters() string {
	var parts []string
	if q.Language != "" {
		parts = append(parts, "language='"+q.Language+"'")
	}
	if q.Type != "" {
		parts = append(parts, "type='"+q.Type+"'")
	}
	for _, tag := range q.Tags {
		parts = append(parts, "tag='"+tag+"'")
	}
	return strings.Join(parts, ", ")
}
