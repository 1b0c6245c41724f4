package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/template.schema.json
var schemaBytes []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error

	messages = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a manifest validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one problem found in a manifest.
type ValidationIssue struct {
	// Path is the JSON pointer of the offending value, e.g.
	// "/symbols/Framework/defaultValue".
	Path    string
	Message string
	// Keyword is the failing schema keyword, or "template" for checks the
	// schema cannot express.
	Keyword string
}

const keywordTemplate = "template"

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("template.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		if schema, err = c.Compile("template.schema.json"); err != nil {
			schemaErr = fmt.Errorf("compiling schema: %w", err)
		}
	})
	return schema, schemaErr
}

// Validate checks raw manifest bytes of the given format. The error return
// is for decode or schema compilation failures; problems with the manifest
// itself are returned in the ValidationResult.
func Validate(data []byte, format Format) (*ValidationResult, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	return validateDocument(doc)
}

func validateDocument(doc interface{}) (*ValidationResult, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	// The validator wants json.Number for numbers, so go through JSON.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	var c issueCollector
	if err := s.Validate(inst); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		c.walk(ve)
		if len(c.issues) == 0 {
			c.add(ValidationIssue{Message: ve.Error()})
		}
	} else {
		checkTemplate(doc, &c)
	}

	sort.SliceStable(c.issues, func(i, j int) bool { return c.issues[i].Path < c.issues[j].Path })
	return &ValidationResult{Valid: len(c.issues) == 0, Issues: c.issues}, nil
}

type issueCollector struct {
	seen   map[ValidationIssue]bool
	issues []ValidationIssue
}

func (c *issueCollector) add(issue ValidationIssue) {
	if c.seen == nil {
		c.seen = make(map[ValidationIssue]bool)
	}
	if c.seen[issue] {
		return
	}
	c.seen[issue] = true
	c.issues = append(c.issues, issue)
}

// walk records the leaf errors of a validation error tree. Combinator
// keywords only wrap their causes and carry no detail of their own.
func (c *issueCollector) walk(ve *jsonschema.ValidationError) {
	for _, cause := range ve.Causes {
		c.walk(cause)
	}
	if len(ve.Causes) > 0 || ve.ErrorKind == nil {
		return
	}

	kw := ve.ErrorKind.KeywordPath()
	if len(kw) == 0 {
		return
	}
	switch keyword := kw[len(kw)-1]; keyword {
	case "oneOf", "anyOf", "allOf", "$ref":
	default:
		c.add(ValidationIssue{
			Path:    pointer(ve.InstanceLocation...),
			Message: ve.ErrorKind.LocalizedString(messages),
			Keyword: keyword,
		})
	}
}

// checkTemplate applies the rules that need more than one field at a time.
func checkTemplate(doc interface{}, c *issueCollector) {
	m, ok := doc.(map[string]interface{})
	if !ok {
		return
	}

	var shortNames []interface{}
	switch sn := m["shortName"].(type) {
	case string:
		shortNames = []interface{}{sn}
	case []interface{}:
		shortNames = sn
	}
	for i, v := range shortNames {
		if s, _ := v.(string); strings.ContainsAny(s, " \t\n") {
			c.add(ValidationIssue{
				Path:    pointer("shortName", fmt.Sprint(i)),
				Message: fmt.Sprintf("short name %q must not contain whitespace", s),
				Keyword: keywordTemplate,
			})
		}
	}

	symbols, _ := m["symbols"].(map[string]interface{})
	for name, v := range symbols {
		sym, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if t, _ := sym["type"].(string); t != "" && t != "parameter" {
			continue
		}
		choices, _ := sym["choices"].([]interface{})
		dataType, _ := sym["datatype"].(string)
		if dataType != DataTypeChoice && !(dataType == "" && len(choices) > 0) {
			continue
		}
		if len(choices) == 0 {
			c.add(ValidationIssue{
				Path:    pointer("symbols", name, "choices"),
				Message: "a choice parameter needs at least one choice",
				Keyword: keywordTemplate,
			})
			continue
		}
		def, ok := sym["defaultValue"]
		if !ok || def == nil || fmt.Sprint(def) == "" {
			continue
		}
		if !hasChoice(choices, fmt.Sprint(def)) {
			c.add(ValidationIssue{
				Path:    pointer("symbols", name, "defaultValue"),
				Message: fmt.Sprintf("default value %q is not one of the declared choices", def),
				Keyword: keywordTemplate,
			})
		}
	}
}

func hasChoice(choices []interface{}, value string) bool {
	for _, ch := range choices {
		if m, ok := ch.(map[string]interface{}); ok && fmt.Sprint(m["choice"]) == value {
			return true
		}
	}
	return false
}

func pointer(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}

// normalize converts decoded YAML and TOML values into JSON-compatible
// types. YAML may produce map[interface{}]interface{} for non-string keys.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = normalize(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	default:
		return val
	}
}
