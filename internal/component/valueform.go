package component

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Built-in value form types.
const (
	FormIdentity       = "identity"
	FormLowerCase      = "lowerCase"
	FormUpperCase      = "upperCase"
	FormFirstLowerCase = "firstLowerCase"
	FormFirstUpperCase = "firstUpperCase"
	FormReplace        = "replace"
)

var caseForms = map[string]func(string) string{
	FormIdentity:       func(s string) string { return s },
	FormLowerCase:      strings.ToLower,
	FormUpperCase:      strings.ToUpper,
	FormFirstLowerCase: mapFirst(unicode.ToLower),
	FormFirstUpperCase: mapFirst(unicode.ToUpper),
}

func mapFirst(fn func(rune) rune) func(string) string {
	return func(s string) string {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return s
		}
		return string(fn(r)) + s[size:]
	}
}

type funcForm struct {
	id string
	fn func(string) string
}

func (f *funcForm) ID() string                { return f.id }
func (f *funcForm) Apply(value string) string { return f.fn(value) }

// ReplaceForm rewrites every match of a regular expression.
type ReplaceForm struct {
	id          string
	pattern     *regexp.Regexp
	replacement string
}

// ID implements ValueForm.
func (f *ReplaceForm) ID() string { return f.id }

// Apply implements ValueForm.
func (f *ReplaceForm) Apply(value string) string {
	if f.pattern == nil {
		return value
	}
	return f.pattern.ReplaceAllString(value, f.replacement)
}

func newReplaceForm(id string, options map[string]interface{}) (interface{}, error) {
	pattern, _ := options["pattern"].(string)
	replacement, _ := options["replacement"].(string)
	if pattern == "" {
		return &ReplaceForm{id: id}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return &ReplaceForm{id: id, pattern: re, replacement: replacement}, nil
}
