package manifest

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Well-known locations inside a template source.
const (
	ConfigDir       = ".template.config"
	LocalizeDir     = "localize"
	ComponentSuffix = ".component.yaml"

	localizationPrefix = "templatestrings."
	localizationSuffix = ".json"
)

// Symbol datatypes.
const (
	DataTypeString = "string"
	DataTypeBool   = "bool"
	DataTypeInt    = "int"
	DataTypeChoice = "choice"
)

// TemplateManifest is the parsed content of a template.{json,yaml,toml} file.
type TemplateManifest struct {
	Schema          string            `json:"$schema,omitempty"`
	Identity        string            `json:"identity"`
	GroupIdentity   string            `json:"groupIdentity,omitempty"`
	Name            string            `json:"name"`
	ShortName       ShortNames        `json:"shortName"`
	Author          string            `json:"author,omitempty"`
	Description     string            `json:"description,omitempty"`
	Classifications []string          `json:"classifications,omitempty"`
	Tags            map[string]string `json:"tags,omitempty"`
	Precedence      int               `json:"precedence,omitempty"`
	SourceName      string            `json:"sourceName,omitempty"`
	Generator       string            `json:"generator,omitempty"`
	Symbols         map[string]Symbol `json:"symbols,omitempty"`
	PostActions     []PostAction      `json:"postActions,omitempty"`
}

// Language returns tags.language.
func (m *TemplateManifest) Language() string {
	return m.Tags["language"]
}

// Type returns tags.type (project, item, solution).
func (m *TemplateManifest) Type() string {
	return m.Tags["type"]
}

// Symbol declares one template parameter.
type Symbol struct {
	Type         string   `json:"type,omitempty"`
	DataType     string   `json:"datatype,omitempty"`
	Description  string   `json:"description,omitempty"`
	DefaultValue Scalar   `json:"defaultValue,omitempty"`
	Replaces     string   `json:"replaces,omitempty"`
	FileRename   string   `json:"fileRename,omitempty"`
	Choices      []Choice `json:"choices,omitempty"`
	ValueForms   []string `json:"valueForms,omitempty"`
	IsRequired   bool     `json:"isRequired,omitempty"`
}

// Choice is one legal value of a choice symbol.
type Choice struct {
	Choice      string `json:"choice"`
	Description string `json:"description,omitempty"`
}

// PostAction is an action requested after the template has been created.
type PostAction struct {
	ActionID           string            `json:"actionId"`
	Description        string            `json:"description,omitempty"`
	Args               map[string]string `json:"args,omitempty"`
	ContinueOnError    *bool             `json:"continueOnError,omitempty"`
	ManualInstructions []Instruction     `json:"manualInstructions,omitempty"`
}

// Instruction is a manual step shown to the user.
type Instruction struct {
	Text string `json:"text"`
}

// ShortNames accepts either a single string or a list of strings.
type ShortNames []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *ShortNames) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = ShortNames{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("shortName must be a string or a list of strings")
	}
	*s = many
	return nil
}

// Scalar is a default value that may be written as a string, number, or bool.
type Scalar string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = Scalar(val)
	case bool:
		*s = Scalar(strconv.FormatBool(val))
	case float64:
		*s = Scalar(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		return fmt.Errorf("defaultValue must be a scalar")
	}
	return nil
}

// LocalizationManifest holds the strings of one templatestrings.<locale>.json.
// Keys follow the flat form used by template authors:
//
//	name, description, author
//	symbols/<name>/description
//	symbols/<name>/choices/<choice>/description
//	postActions/<actionId>/description
type LocalizationManifest struct {
	Locale  string
	Strings map[string]string
}

// ComponentManifest describes a pluggable component shipped by a source.
type ComponentManifest struct {
	Kind    string                 `yaml:"kind"`
	ID      string                 `yaml:"id"`
	Type    string                 `yaml:"type"`
	Options map[string]interface{} `yaml:"options,omitempty"`
}
