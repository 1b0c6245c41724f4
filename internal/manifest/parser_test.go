package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

const consoleJSON = `{
  // comments are allowed in template.json
  "$schema": "http://json.schemastore.org/template",
  "identity": "Newt.Console.CSharp",
  "groupIdentity": "Newt.Console",
  "name": "Console Application",
  "shortName": "console",
  "author": "Newt",
  "classifications": ["Common", "Console"],
  "tags": { "language": "C#", "type": "project" },
  "precedence": 100,
  "sourceName": "Company.ConsoleApplication1",
  "symbols": {
    "Framework": {
      "type": "parameter",
      "datatype": "choice",
      "defaultValue": "net5.0",
      "choices": [
        { "choice": "net5.0", "description": "Target net5.0" },
        { "choice": "netcoreapp3.1", "description": "Target netcoreapp3.1" }
      ],
      "replaces": "net5.0"
    },
    "skipRestore": { "type": "parameter", "datatype": "bool", "defaultValue": false }
  },
  "postActions": [
    { "actionId": "restore", "description": "Restore packages", "args": { "command": "go mod download" } },
  ]
}`

const consoleYAML = `identity: Newt.Console.FSharp
groupIdentity: Newt.Console
name: Console Application
shortName: [console, fsconsole]
tags:
  language: F#
  type: project
symbols:
  Framework:
    datatype: choice
    choices:
      - choice: net5.0
        description: Target net5.0
`

const consoleTOML = `identity = "Newt.Console.VB"
name = "Console Application"
shortName = "console"
precedence = 7

[tags]
language = "VB"
`

func TestParseTemplate_Formats(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		format     Format
		identity   string
		group      string
		shortNames []string
		language   string
		precedence int
	}{
		{"json", consoleJSON, FormatJSON, "Newt.Console.CSharp", "Newt.Console", []string{"console"}, "C#", 100},
		{"yaml", consoleYAML, FormatYAML, "Newt.Console.FSharp", "Newt.Console", []string{"console", "fsconsole"}, "F#", 0},
		{"toml", consoleTOML, FormatTOML, "Newt.Console.VB", "Newt.Console.VB", []string{"console"}, "VB", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseTemplate([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("ParseTemplate error: %v", err)
			}
			if m.Identity != tt.identity {
				t.Errorf("Identity = %q, want %q", m.Identity, tt.identity)
			}
			if m.GroupIdentity != tt.group {
				t.Errorf("GroupIdentity = %q, want %q", m.GroupIdentity, tt.group)
			}
			if len(m.ShortName) != len(tt.shortNames) {
				t.Fatalf("ShortName = %v, want %v", m.ShortName, tt.shortNames)
			}
			for i := range tt.shortNames {
				if m.ShortName[i] != tt.shortNames[i] {
					t.Errorf("ShortName[%d] = %q, want %q", i, m.ShortName[i], tt.shortNames[i])
				}
			}
			if m.Language() != tt.language {
				t.Errorf("Language = %q, want %q", m.Language(), tt.language)
			}
			if m.Precedence != tt.precedence {
				t.Errorf("Precedence = %d, want %d", m.Precedence, tt.precedence)
			}
		})
	}
}

func TestParseTemplate_SymbolsAndPostActions(t *testing.T) {
	m, err := ParseTemplate([]byte(consoleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("ParseTemplate error: %v", err)
	}

	fw, ok := m.Symbols["Framework"]
	if !ok {
		t.Fatal("missing Framework symbol")
	}
	if fw.DataType != DataTypeChoice {
		t.Errorf("DataType = %q, want %q", fw.DataType, DataTypeChoice)
	}
	if len(fw.Choices) != 2 || fw.Choices[0].Description != "Target net5.0" {
		t.Errorf("Choices = %+v", fw.Choices)
	}
	if fw.DefaultValue != "net5.0" {
		t.Errorf("DefaultValue = %q, want net5.0", fw.DefaultValue)
	}
	if got := m.Symbols["skipRestore"].DefaultValue; got != "false" {
		t.Errorf("bool DefaultValue = %q, want %q", got, "false")
	}
	if m.Type() != "project" {
		t.Errorf("Type = %q, want project", m.Type())
	}

	if len(m.PostActions) != 1 {
		t.Fatalf("PostActions len = %d, want 1", len(m.PostActions))
	}
	pa := m.PostActions[0]
	if pa.ActionID != "restore" || pa.Args["command"] != "go mod download" {
		t.Errorf("PostAction = %+v", pa)
	}
	if pa.ContinueOnError != nil {
		t.Errorf("ContinueOnError = %v, want nil", *pa.ContinueOnError)
	}
}

func TestParseTemplate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"missing identity", `{"name": "x", "shortName": "x"}`, FormatJSON},
		{"empty short name list", `{"identity": "a", "name": "x", "shortName": []}`, FormatJSON},
		{"bad type tag", "identity: a\nname: x\nshortName: x\ntags:\n  type: widget\n", FormatYAML},
		{"precedence not integer", `{"identity": "a", "name": "x", "shortName": "x", "precedence": "high"}`, FormatJSON},
		{"post action without id", `{"identity": "a", "name": "x", "shortName": "x", "postActions": [{}]}`, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTemplate([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !IsInvalid(err) {
				t.Errorf("expected an InvalidError, got %v", err)
			}
		})
	}
}

func TestParseTemplate_Malformed(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			_, err := ParseTemplate([]byte("{{{ not a manifest"), format)
			if err == nil {
				t.Fatal("expected error for malformed input")
			}
			if IsInvalid(err) {
				t.Error("decode failure should not be reported as a schema failure")
			}
		})
	}
}

func TestValidate_ReportsPaths(t *testing.T) {
	result, err := Validate([]byte(`{"identity": "a", "name": "x", "shortName": "x", "precedence": "high"}`), FormatJSON)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	found := false
	for _, issue := range result.Issues {
		if issue.Path == "/precedence" {
			found = true
		}
	}
	if !found {
		t.Errorf("no issue reported for /precedence: %+v", result.Issues)
	}
}

func TestParseTemplateFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "template.yml")
	if err := os.WriteFile(p, []byte(consoleYAML), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := ParseTemplateFile(p)
	if err != nil {
		t.Fatalf("ParseTemplateFile error: %v", err)
	}
	if m.Identity != "Newt.Console.FSharp" {
		t.Errorf("Identity = %q", m.Identity)
	}

	if _, err := ParseTemplateFile(filepath.Join(dir, "other.yaml")); err == nil {
		t.Error("expected error for a non-manifest file name")
	}
}

func TestTemplateFileNames_Priority(t *testing.T) {
	names := TemplateFileNames()
	want := []string{"template.json", "template.yaml", "template.yml", "template.toml"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLocalization(t *testing.T) {
	locale, ok := LocaleFromFileName("templatestrings.de-DE.json")
	if !ok || locale != "de-DE" {
		t.Fatalf("LocaleFromFileName = %q, %v", locale, ok)
	}
	if _, ok := LocaleFromFileName("template.json"); ok {
		t.Error("template.json is not a localization file")
	}

	l, err := ParseLocalization([]byte(`{
  // German
  "name": "Konsolenanwendung",
  "symbols/Framework/choices/net5.0/description": "Ziel net5.0"
}`), locale)
	if err != nil {
		t.Fatalf("ParseLocalization error: %v", err)
	}
	if l.Strings["name"] != "Konsolenanwendung" {
		t.Errorf("name = %q", l.Strings["name"])
	}
	if l.Locale != "de-DE" {
		t.Errorf("Locale = %q", l.Locale)
	}
}

func TestParseComponent(t *testing.T) {
	m, err := ParseComponent([]byte("kind: valueForm\nid: safe_namespace\ntype: replace\noptions:\n  pattern: '[^a-z]'\n  replacement: _\n"))
	if err != nil {
		t.Fatalf("ParseComponent error: %v", err)
	}
	if m.Kind != "valueForm" || m.ID != "safe_namespace" || m.Type != "replace" {
		t.Errorf("component = %+v", m)
	}
	if m.Options["replacement"] != "_" {
		t.Errorf("options = %v", m.Options)
	}

	m, err = ParseComponent([]byte("kind: generator\nid: text\n"))
	if err != nil {
		t.Fatalf("ParseComponent error: %v", err)
	}
	if m.Type != "text" {
		t.Errorf("Type should default to id, got %q", m.Type)
	}

	if _, err := ParseComponent([]byte("id: x\n")); err == nil {
		t.Error("expected error for missing kind")
	}
}

func TestValidate_TemplateRules(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantPath string
	}{
		{
			name:     "default outside choices",
			manifest: `{"identity": "a", "name": "x", "shortName": "x", "symbols": {"Framework": {"datatype": "choice", "defaultValue": "net9.0", "choices": [{"choice": "net5.0"}]}}}`,
			wantPath: "/symbols/Framework/defaultValue",
		},
		{
			name:     "choice without choices",
			manifest: `{"identity": "a", "name": "x", "shortName": "x", "symbols": {"Framework": {"datatype": "choice"}}}`,
			wantPath: "/symbols/Framework/choices",
		},
		{
			name:     "short name with whitespace",
			manifest: `{"identity": "a", "name": "x", "shortName": ["ok", "not ok"]}`,
			wantPath: "/shortName/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate([]byte(tt.manifest), FormatJSON)
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if result.Valid {
				t.Fatal("expected invalid result")
			}
			if len(result.Issues) != 1 || result.Issues[0].Path != tt.wantPath {
				t.Errorf("issues = %+v, want one at %s", result.Issues, tt.wantPath)
			}
			if result.Issues[0].Keyword != "template" {
				t.Errorf("keyword = %q, want template", result.Issues[0].Keyword)
			}

			if _, err := ParseTemplate([]byte(tt.manifest), FormatJSON); !IsInvalid(err) {
				t.Errorf("ParseTemplate error = %v, want an InvalidError", err)
			}
		})
	}
}
