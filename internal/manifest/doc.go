// Package manifest handles parsing and validation of template manifests.
// A template is described by .template.config/template.{json,yaml,yml,toml};
// JSON manifests may carry comments. Every format is decoded to the same
// generic document, validated against the embedded JSON schema, and then
// bound to TemplateManifest. The package also parses localization files
// (templatestrings.<locale>.json) and component descriptors (*.component.yaml).
package manifest
