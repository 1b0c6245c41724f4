package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/component"
	"github.com/newt-labs/newt/internal/mount"
	"github.com/newt-labs/newt/internal/userdata"
)

var (
	// ErrOverwrite is matched by *OverwriteError.
	ErrOverwrite = errors.New("creation would overwrite existing files")
	// ErrTemplateContent reports a template that cannot be rendered.
	ErrTemplateContent = errors.New("template content error")
)

// Action is what happens to one output file.
type Action string

const (
	ActionCreate    Action = "Create"
	ActionOverwrite Action = "Overwrite"
)

// FileAction is one planned change to the output directory.
type FileAction struct {
	Action Action
	// Path is slash-separated and relative to the output directory.
	Path string
	// Existing holds the current content for overwrites.
	Existing []byte
	file     component.File
}

// Request describes one instantiation.
type Request struct {
	Template catalog.Template
	// Source is the mounted template source. When nil the template's source
	// URI is opened.
	Source fs.FS
	// Components resolves the generator and value forms. Nil means the
	// built-ins.
	Components *component.Set
	// Name is the output name (-n). It defaults to the base name of
	// OutputDir.
	Name string
	// OutputDir is where files are written.
	OutputDir string
	// Values are canonical parameter values keyed by parameter name.
	Values map[string]string
	Force  bool
	DryRun bool
}

// Result is the outcome of Create.
type Result struct {
	Template  catalog.Template
	Name      string
	OutputDir string
	Actions   []FileAction
	// Written lists the files actually written, in order.
	Written []string
	DryRun  bool
}

// OverwriteError lists the existing files creation would change.
type OverwriteError struct {
	Paths []string
}

func (e *OverwriteError) Error() string {
	return fmt.Sprintf("%d existing file(s) would be overwritten", len(e.Paths))
}

// Is makes errors.Is(err, ErrOverwrite) succeed.
func (e *OverwriteError) Is(target error) bool {
	return target == ErrOverwrite
}

// Create renders req.Template and writes it to the output directory. Without
// Force, nothing is written when any file already exists. With DryRun the
// plan is returned and nothing is written. If ctx is cancelled while writing,
// the result lists the files written so far alongside the context error.
func Create(ctx context.Context, req Request) (*Result, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	actions, err := Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Template:  req.Template,
		Name:      req.Name,
		OutputDir: req.OutputDir,
		Actions:   actions,
		DryRun:    req.DryRun,
	}
	if req.DryRun {
		return res, nil
	}

	if !req.Force {
		var existing []string
		for _, a := range actions {
			if a.Action == ActionOverwrite {
				existing = append(existing, a.Path)
			}
		}
		if len(existing) > 0 {
			return res, &OverwriteError{Paths: existing}
		}
	}

	for _, a := range actions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := writeFile(req.OutputDir, a.file); err != nil {
			return res, err
		}
		res.Written = append(res.Written, a.Path)
	}
	return res, nil
}

// Plan renders the template and classifies every output file. It writes
// nothing.
func Plan(ctx context.Context, req Request) ([]FileAction, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	src := req.Source
	if src == nil {
		mp, err := mount.Open(req.Template.SourceURI)
		if err != nil {
			return nil, fmt.Errorf("opening template source: %w", err)
		}
		defer mp.Close()
		src = mp.FS()
	}

	set := req.Components
	if set == nil {
		set = component.NewSet(nil)
	}
	gen, err := set.Generator(req.Template.Generator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateContent, err)
	}

	values, err := BindValues(req.Template, req.Name, req.Values)
	if err != nil {
		return nil, err
	}
	files, err := gen.Render(ctx, component.RenderRequest{
		FS:           src,
		Root:         req.Template.Root,
		Replacements: Replacements(req.Template, req.Name, values, set),
		Values:       values,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrTemplateContent, err)
	}

	actions := make([]FileAction, 0, len(files))
	for _, f := range files {
		if !fs.ValidPath(f.Path) {
			return nil, fmt.Errorf("%w: output path %q escapes the output directory", ErrTemplateContent, f.Path)
		}
		a := FileAction{Action: ActionCreate, Path: f.Path, file: f}
		target := filepath.Join(req.OutputDir, filepath.FromSlash(f.Path))
		if data, err := os.ReadFile(target); err == nil {
			a.Action = ActionOverwrite
			a.Existing = data
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("checking %s: %w", target, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// BindValues merges user values with parameter defaults. The output name is
// available as "name".
func BindValues(t catalog.Template, name string, user map[string]string) (map[string]string, error) {
	values := map[string]string{"name": name}
	var missing []string
	for _, p := range t.Parameters {
		if v, ok := user[p.Name]; ok {
			values[p.Name] = v
			continue
		}
		if p.Required {
			missing = append(missing, p.Name)
			continue
		}
		values[p.Name] = p.DefaultValue
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required parameter(s): %s", strings.Join(missing, ", "))
	}
	return values, nil
}

// Replacements builds the token substitutions for t: the source name becomes
// the output name, and every parameter's replaces and fileRename tokens
// become its value. Each value form of a parameter adds the transformed
// token mapped to the transformed value.
func Replacements(t catalog.Template, name string, values map[string]string, set *component.Set) []component.Replacement {
	var reps []component.Replacement
	if t.SourceName != "" && name != "" {
		reps = append(reps, component.Replacement{Token: t.SourceName, Value: name})
	}
	for _, p := range t.Parameters {
		value := values[p.Name]
		for _, token := range []string{p.Replaces, p.FileRename} {
			if token == "" {
				continue
			}
			reps = append(reps, component.Replacement{Token: token, Value: value})
			for _, id := range p.ValueForms {
				form, ok := set.ValueForm(id)
				if !ok {
					continue
				}
				if ft := form.Apply(token); ft != "" && ft != token {
					reps = append(reps, component.Replacement{Token: ft, Value: form.Apply(value)})
				}
			}
		}
	}
	return reps
}

func (req *Request) normalize() error {
	if req.OutputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		req.OutputDir = wd
	}
	abs, err := filepath.Abs(req.OutputDir)
	if err != nil {
		return fmt.Errorf("resolving output directory: %w", err)
	}
	req.OutputDir = abs
	if req.Name == "" {
		req.Name = filepath.Base(abs)
	}
	return nil
}

func writeFile(outputDir string, f component.File) error {
	target := filepath.Join(outputDir, filepath.FromSlash(f.Path))
	if err := os.MkdirAll(filepath.Dir(target), userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Path, err)
	}
	mode := f.Mode
	if mode == 0 {
		mode = userdata.FilePermNormal
	}
	if err := os.WriteFile(target, f.Content, mode); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	return nil
}
