package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"go.yaml.in/yaml/v3"
)

// Format identifies a manifest file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// templateFiles lists template manifest names in lookup priority order.
var templateFiles = []struct {
	name   string
	format Format
}{
	{"template.json", FormatJSON},
	{"template.yaml", FormatYAML},
	{"template.yml", FormatYAML},
	{"template.toml", FormatTOML},
}

// TemplateFileNames returns the recognised template manifest file names in
// priority order.
func TemplateFileNames() []string {
	names := make([]string, len(templateFiles))
	for i, f := range templateFiles {
		names[i] = f.name
	}
	return names
}

// TemplateFormat returns the format of a template manifest file name.
// ok is false when name is not a template manifest.
func TemplateFormat(name string) (Format, bool) {
	for _, f := range templateFiles {
		if f.name == name {
			return f.format, true
		}
	}
	return "", false
}

// InvalidError reports a manifest that decoded but failed schema validation.
type InvalidError struct {
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest is invalid"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path != "" {
			parts = append(parts, issue.Path+": "+issue.Message)
		} else {
			parts = append(parts, issue.Message)
		}
	}
	return "manifest is invalid: " + strings.Join(parts, "; ")
}

// IsInvalid reports whether err is a schema validation failure.
func IsInvalid(err error) bool {
	var ie *InvalidError
	return errors.As(err, &ie)
}

// ParseTemplate decodes, validates, and binds a template manifest.
func ParseTemplate(data []byte, format Format) (*TemplateManifest, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	result, err := validateDocument(doc)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidError{Issues: result.Issues}
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	var m TemplateManifest
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, fmt.Errorf("binding template manifest: %w", err)
	}
	if m.GroupIdentity == "" {
		m.GroupIdentity = m.Identity
	}
	return &m, nil
}

// ParseTemplateFile reads a manifest file and parses it using the format
// implied by its name.
func ParseTemplateFile(p string) (*TemplateManifest, error) {
	format, ok := TemplateFormat(path.Base(p))
	if !ok {
		return nil, fmt.Errorf("%s is not a template manifest", p)
	}
	data, err := readFile(p)
	if err != nil {
		return nil, err
	}
	m, err := ParseTemplate(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", p, err)
	}
	return m, nil
}

// LocaleFromFileName extracts the locale from templatestrings.<locale>.json.
func LocaleFromFileName(name string) (string, bool) {
	if !strings.HasPrefix(name, localizationPrefix) || !strings.HasSuffix(name, localizationSuffix) {
		return "", false
	}
	locale := strings.TrimSuffix(strings.TrimPrefix(name, localizationPrefix), localizationSuffix)
	if locale == "" {
		return "", false
	}
	return locale, true
}

// ParseLocalization parses a localization file. Comments are allowed.
func ParseLocalization(data []byte, locale string) (*LocalizationManifest, error) {
	var strs map[string]string
	if err := json.Unmarshal(jsonc.ToJSON(data), &strs); err != nil {
		return nil, fmt.Errorf("parsing localization %s: %w", locale, err)
	}
	return &LocalizationManifest{Locale: locale, Strings: strs}, nil
}

// ParseComponent parses a *.component.yaml descriptor.
func ParseComponent(data []byte) (*ComponentManifest, error) {
	var m ComponentManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing component manifest: %w", err)
	}
	if m.Kind == "" {
		return nil, fmt.Errorf("component manifest missing required 'kind' field")
	}
	if m.ID == "" {
		return nil, fmt.Errorf("component manifest missing required 'id' field")
	}
	if m.Type == "" {
		m.Type = m.ID
	}
	return &m, nil
}

// decode turns manifest bytes into a JSON-compatible generic document.
func decode(data []byte, format Format) (interface{}, error) {
	var doc interface{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case FormatTOML:
		var m map[string]interface{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
		doc = m
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
	return normalize(doc), nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
