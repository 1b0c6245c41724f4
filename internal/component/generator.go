package component

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/newt-labs/newt/internal/manifest"
)

// Built-in generator types.
const (
	GeneratorText       = "text"
	GeneratorGoTemplate = "gotemplate"
)

const templateSuffix = ".tmpl"

// TextGenerator copies the template tree, replacing tokens in paths and in
// the content of text files.
type TextGenerator struct {
	id string
}

// ID implements Generator.
func (g *TextGenerator) ID() string { return g.id }

// Render implements Generator.
func (g *TextGenerator) Render(ctx context.Context, req RenderRequest) ([]File, error) {
	r := newReplacer(req.Replacements)
	return walkTemplate(ctx, req, func(rel string, data []byte, mode fs.FileMode) (File, error) {
		if !isBinary(data) {
			data = []byte(r.Replace(string(data)))
		}
		return File{Path: r.Replace(rel), Content: data, Mode: mode}, nil
	})
}

// GoTemplateGenerator renders *.tmpl files with text/template, using the
// parameter values as data. Other files are copied unchanged. Path tokens
// are replaced as with the text generator.
type GoTemplateGenerator struct {
	id string
}

// ID implements Generator.
func (g *GoTemplateGenerator) ID() string { return g.id }

// Render implements Generator.
func (g *GoTemplateGenerator) Render(ctx context.Context, req RenderRequest) ([]File, error) {
	r := newReplacer(req.Replacements)
	return walkTemplate(ctx, req, func(rel string, data []byte, mode fs.FileMode) (File, error) {
		out := File{Path: r.Replace(rel), Content: data, Mode: mode}
		if !strings.HasSuffix(rel, templateSuffix) {
			return out, nil
		}
		tmpl, err := template.New(rel).Option("missingkey=zero").Parse(string(data))
		if err != nil {
			return File{}, fmt.Errorf("parsing template %s: %w", rel, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, req.Values); err != nil {
			return File{}, fmt.Errorf("rendering template %s: %w", rel, err)
		}
		out.Path = strings.TrimSuffix(out.Path, templateSuffix)
		out.Content = buf.Bytes()
		return out, nil
	})
}

// walkTemplate visits every file under req.Root, skipping the template
// configuration directory, and collects the transformed output sorted by
// path.
func walkTemplate(ctx context.Context, req RenderRequest, fn func(rel string, data []byte, mode fs.FileMode) (File, error)) ([]File, error) {
	root := req.Root
	if root == "" {
		root = "."
	}

	var files []File
	err := fs.WalkDir(req.FS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if d.Name() == manifest.ConfigDir {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel := p
		if root != "." {
			rel = strings.TrimPrefix(p, root+"/")
		}

		data, err := fs.ReadFile(req.FS, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		mode := fs.FileMode(0644)
		if info, err := d.Info(); err == nil && info.Mode().Perm()&0111 != 0 {
			mode = 0755
		}

		f, err := fn(rel, data, mode)
		if err != nil {
			return err
		}
		f.Path = path.Clean(f.Path)
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// newReplacer builds a replacer that prefers the longest token at any
// position.
func newReplacer(reps []Replacement) *strings.Replacer {
	sorted := make([]Replacement, 0, len(reps))
	for _, r := range reps {
		if r.Token != "" {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i].Token) > len(sorted[j].Token) })

	args := make([]string, 0, 2*len(sorted))
	for _, r := range sorted {
		args = append(args, r.Token, r.Value)
	}
	return strings.NewReplacer(args...)
}

// isBinary reports whether data looks like a binary file.
func isBinary(data []byte) bool {
	n := len(data)
	if n > 8000 {
		n = 8000
	}
	return bytes.IndexByte(data[:n], 0) >= 0
}
