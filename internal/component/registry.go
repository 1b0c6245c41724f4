package component

import (
	"fmt"
	"sort"
)

// Factory constructs a component instance with the given id and options.
type Factory func(id string, options map[string]interface{}) (interface{}, error)

// Registry maps (kind, type) to factories.
type Registry struct {
	factories map[Kind]map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[Kind]map[string]Factory)}
	for _, k := range Kinds() {
		r.factories[k] = make(map[string]Factory)
	}
	return r
}

// Register adds a factory for kind/typ.
func (r *Registry) Register(kind Kind, typ string, f Factory) {
	r.factories[kind][typ] = f
}

// New constructs a component of kind/typ under id.
func (r *Registry) New(kind Kind, typ, id string, options map[string]interface{}) (interface{}, error) {
	byType, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown component kind %q", kind)
	}
	f, ok := byType[typ]
	if !ok {
		return nil, fmt.Errorf("no %s component of type %q", kind, typ)
	}
	inst, err := f(id, options)
	if err != nil {
		return nil, fmt.Errorf("creating %s %q: %w", kind, id, err)
	}
	return inst, nil
}

// Types returns the registered types for kind, sorted.
func (r *Registry) Types(kind Kind) []string {
	var out []string
	for typ := range r.factories[kind] {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Builtins returns a registry populated with every built-in component type.
func Builtins() *Registry {
	r := NewRegistry()

	r.Register(KindGenerator, GeneratorText, func(id string, _ map[string]interface{}) (interface{}, error) {
		return &TextGenerator{id: id}, nil
	})
	r.Register(KindGenerator, GeneratorGoTemplate, func(id string, _ map[string]interface{}) (interface{}, error) {
		return &GoTemplateGenerator{id: id}, nil
	})

	for typ, fn := range caseForms {
		fn := fn
		r.Register(KindValueForm, typ, func(id string, _ map[string]interface{}) (interface{}, error) {
			return &funcForm{id: id, fn: fn}, nil
		})
	}
	r.Register(KindValueForm, FormReplace, newReplaceForm)

	r.Register(KindPostAction, ActionRestore, func(id string, _ map[string]interface{}) (interface{}, error) {
		return &RestoreProcessor{id: id}, nil
	})
	r.Register(KindPostAction, ActionRunScript, func(id string, _ map[string]interface{}) (interface{}, error) {
		return &RunScriptProcessor{id: id}, nil
	})
	r.Register(KindPostAction, ActionInstructions, func(id string, _ map[string]interface{}) (interface{}, error) {
		return &InstructionsProcessor{id: id}, nil
	})

	return r
}

// Set is the resolved component set for one instantiation: every built-in
// under its own type name, extended by components discovered in sources.
type Set struct {
	generators map[string]Generator
	forms      map[string]ValueForm
	processors map[string]PostActionProcessor
}

// NewSet builds a Set from the built-in registry plus descriptors. Later
// descriptors with the same id replace earlier ones; built-ins can be
// shadowed.
func NewSet(descs []Descriptor) *Set {
	s := &Set{
		generators: make(map[string]Generator),
		forms:      make(map[string]ValueForm),
		processors: make(map[string]PostActionProcessor),
	}

	reg := Builtins()
	for _, k := range Kinds() {
		for _, typ := range reg.Types(k) {
			inst, err := reg.New(k, typ, typ, nil)
			if err != nil {
				continue
			}
			s.add(Descriptor{Kind: k, ID: typ, Instance: inst})
		}
	}
	for _, d := range descs {
		s.add(d)
	}
	return s
}

func (s *Set) add(d Descriptor) {
	switch d.Kind {
	case KindGenerator:
		if g, ok := d.Instance.(Generator); ok {
			s.generators[d.ID] = g
		}
	case KindValueForm:
		if f, ok := d.Instance.(ValueForm); ok {
			s.forms[d.ID] = f
		}
	case KindPostAction:
		if p, ok := d.Instance.(PostActionProcessor); ok {
			s.processors[d.ID] = p
		}
	}
}

// Generator returns the generator registered under id. An empty id selects
// the text generator.
func (s *Set) Generator(id string) (Generator, error) {
	if id == "" {
		id = GeneratorText
	}
	g, ok := s.generators[id]
	if !ok {
		return nil, fmt.Errorf("unknown generator %q", id)
	}
	return g, nil
}

// ValueForm returns the value form registered under id.
func (s *Set) ValueForm(id string) (ValueForm, bool) {
	f, ok := s.forms[id]
	return f, ok
}

// Processor returns the post-action processor registered under id.
func (s *Set) Processor(id string) (PostActionProcessor, bool) {
	p, ok := s.processors[id]
	return p, ok
}
