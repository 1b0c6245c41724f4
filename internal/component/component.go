// Package component defines the pluggable capabilities a template source can
// contribute: generators, value forms, and post-action processors. The set of
// kinds is closed; each kind has a built-in factory table, and a source can
// only instantiate types from that table under its own ids.
package component

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/newt-labs/newt/internal/catalog"
)

// Kind is a capability interface a component implements.
type Kind string

const (
	KindGenerator  Kind = "generator"
	KindValueForm  Kind = "valueForm"
	KindPostAction Kind = "postAction"
)

// Kinds lists every known kind.
func Kinds() []Kind {
	return []Kind{KindGenerator, KindValueForm, KindPostAction}
}

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown component kind %q", s)
}

// Replacement substitutes Token with Value in paths and content.
type Replacement struct {
	Token string
	Value string
}

// RenderRequest is the input to a generator.
type RenderRequest struct {
	// FS is the mounted source.
	FS fs.FS
	// Root is the template root within FS.
	Root string
	// Replacements are applied to every path and, for text files, content.
	Replacements []Replacement
	// Values maps parameter names (and "name") to their final values.
	Values map[string]string
}

// File is one generated output file.
type File struct {
	// Path is slash-separated and relative to the output directory.
	Path    string
	Content []byte
	Mode    fs.FileMode
}

// Generator produces output files from a template root.
type Generator interface {
	ID() string
	Render(ctx context.Context, req RenderRequest) ([]File, error)
}

// ValueForm derives an alternate form of a value, e.g. its lower case.
type ValueForm interface {
	ID() string
	Apply(value string) string
}

// CommandRunner runs an external command in dir and returns its combined
// output.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// PostActionEnv carries what a processor needs to act on created output.
type PostActionEnv struct {
	OutputDir string
	Out       io.Writer
	Run       CommandRunner
}

// PostActionProcessor executes a post-creation action.
type PostActionProcessor interface {
	ID() string
	Process(ctx context.Context, action catalog.PostAction, env PostActionEnv) error
}

// Descriptor is a component discovered in a source: the internal path it
// was declared at, its kind, and the constructed instance. Type and Options
// are kept so the instance can be rebuilt from a cached scan.
type Descriptor struct {
	Path     string                 `json:"path"`
	Kind     Kind                   `json:"kind"`
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Options  map[string]interface{} `json:"options,omitempty"`
	Instance interface{}            `json:"-"`
}

// Rehydrate rebuilds d.Instance from its kind, type, and options.
func (d Descriptor) Rehydrate(reg *Registry) (Descriptor, error) {
	inst, err := reg.New(d.Kind, d.Type, d.ID, d.Options)
	if err != nil {
		return Descriptor{}, err
	}
	d.Instance = inst
	return d, nil
}
