package catalog

import (
	"sort"

	"github.com/newt-labs/newt/internal/manifest"
)

// Template types.
const (
	TypeProject  = "project"
	TypeItem     = "item"
	TypeSolution = "solution"
)

// PackageRef identifies an updatable package a template came from.
type PackageRef struct {
	ID      string `json:"id" yaml:"id"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// IsZero reports whether the reference is empty.
func (p PackageRef) IsZero() bool {
	return p.ID == ""
}

// Template is an immutable template definition discovered in a source.
type Template struct {
	Identity        string
	GroupIdentity   string
	Name            string
	ShortNames      []string
	Author          string
	Description     string
	Classifications []string
	Language        string
	Type            string
	Precedence      int
	SourceName      string
	Generator       string
	Parameters      []Parameter
	PostActions     []PostAction

	// SourceURI is the mount point the template was scanned from.
	SourceURI string
	// Root is the slash-separated template root inside the mount point.
	Root string
	// Package is set when the source is an installed feed package.
	Package PackageRef
}

// Parameter is a user-settable template symbol.
type Parameter struct {
	Name         string
	DataType     string
	Description  string
	DefaultValue string
	Replaces     string
	FileRename   string
	Choices      []Choice
	ValueForms   []string
	Required     bool
}

// IsChoice reports whether the parameter only accepts declared choices.
func (p Parameter) IsChoice() bool {
	return p.DataType == manifest.DataTypeChoice
}

// Choice is one legal value of a choice parameter.
type Choice struct {
	Value       string
	Description string
}

// PostAction is a post-creation action request.
type PostAction struct {
	ActionID           string
	Description        string
	Args               map[string]string
	ContinueOnError    *bool
	ManualInstructions []string
}

// FromManifest builds a Template from a parsed manifest. root is the
// template root relative to the mount point.
func FromManifest(m *manifest.TemplateManifest, sourceURI, root string) Template {
	t := Template{
		Identity:        m.Identity,
		GroupIdentity:   m.GroupIdentity,
		Name:            m.Name,
		ShortNames:      append([]string(nil), m.ShortName...),
		Author:          m.Author,
		Description:     m.Description,
		Classifications: append([]string(nil), m.Classifications...),
		Language:        m.Language(),
		Type:            m.Type(),
		Precedence:      m.Precedence,
		SourceName:      m.SourceName,
		Generator:       m.Generator,
		SourceURI:       sourceURI,
		Root:            root,
	}
	if t.GroupIdentity == "" {
		t.GroupIdentity = t.Identity
	}

	names := make([]string, 0, len(m.Symbols))
	for name, sym := range m.Symbols {
		if sym.Type != "" && sym.Type != "parameter" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sym := m.Symbols[name]
		dataType := sym.DataType
		switch {
		case dataType == "" && len(sym.Choices) > 0:
			dataType = manifest.DataTypeChoice
		case dataType == "" || dataType == "text":
			dataType = manifest.DataTypeString
		}
		p := Parameter{
			Name:         name,
			DataType:     dataType,
			Description:  sym.Description,
			DefaultValue: string(sym.DefaultValue),
			Replaces:     sym.Replaces,
			FileRename:   sym.FileRename,
			ValueForms:   append([]string(nil), sym.ValueForms...),
			Required:     sym.IsRequired,
		}
		for _, c := range sym.Choices {
			p.Choices = append(p.Choices, Choice{Value: c.Choice, Description: c.Description})
		}
		t.Parameters = append(t.Parameters, p)
	}

	for _, pa := range m.PostActions {
		action := PostAction{
			ActionID:        pa.ActionID,
			Description:     pa.Description,
			ContinueOnError: pa.ContinueOnError,
		}
		if len(pa.Args) > 0 {
			action.Args = make(map[string]string, len(pa.Args))
			for k, v := range pa.Args {
				action.Args[k] = v
			}
		}
		for _, in := range pa.ManualInstructions {
			action.ManualInstructions = append(action.ManualInstructions, in.Text)
		}
		t.PostActions = append(t.PostActions, action)
	}

	return t
}

// Parameter returns the named parameter.
func (t Template) Parameter(name string) (Parameter, bool) {
	for _, p := range t.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// HasShortName reports whether name is one of the template's short names.
// The comparison is case-sensitive.
func (t Template) HasShortName(name string) bool {
	for _, sn := range t.ShortNames {
		if sn == name {
			return true
		}
	}
	return false
}

// PrimaryShortName returns the first short name.
func (t Template) PrimaryShortName() string {
	if len(t.ShortNames) == 0 {
		return ""
	}
	return t.ShortNames[0]
}

// WithPackage returns a copy of t attributed to pkg.
func (t Template) WithPackage(pkg PackageRef) Template {
	t.Package = pkg
	return t
}
