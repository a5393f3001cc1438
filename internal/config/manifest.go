package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	plateerrors "github.com/conneroisu/plate/internal/errors"
	"gopkg.in/yaml.v3"
)

// Manifest describes one editor composition.
//
//	id: doc
//	presets: [basic]
//	plugins:
//	  - key: callout
//	    component: Callout
//	    html:
//	      - nodeNames: [ASIDE]
//	override:
//	  enabled: {insertData: false}
//	configure:
//	  length: {maxLength: 500}
//	editor:
//	  autoSelect: end
//	  normalize: true
//	  value:
//	    - type: p
//	      children: [{text: hello}]
type Manifest struct {
	ID        string                            `yaml:"id"`
	Presets   []string                          `yaml:"presets,omitempty"`
	Plugins   []PluginSpec                      `yaml:"plugins,omitempty"`
	Override  OverrideSpec                      `yaml:"override,omitempty"`
	Configure map[string]map[string]interface{} `yaml:"configure,omitempty"`
	Editor    EditorSpec                        `yaml:"editor,omitempty"`
}

// PluginSpec is the manifest form of a plugin descriptor.
type PluginSpec struct {
	Key       string                 `yaml:"key,omitempty"`
	Type      string                 `yaml:"type,omitempty"`
	Priority  int                    `yaml:"priority,omitempty"`
	Enabled   *bool                  `yaml:"enabled,omitempty"`
	Component string                 `yaml:"component,omitempty"`
	Options   map[string]interface{} `yaml:"options,omitempty"`
	HTML      []HTMLRuleSpec         `yaml:"html,omitempty"`
	// Preset names a built-in plugin used as the base that this spec
	// extends.
	Preset  string       `yaml:"preset,omitempty"`
	Plugins []PluginSpec `yaml:"plugins,omitempty"`
}

// HTMLRuleSpec is the manifest form of an HTML deserialization rule.
type HTMLRuleSpec struct {
	NodeNames  []string          `yaml:"nodeNames,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
	IsLeaf     bool              `yaml:"isLeaf,omitempty"`
	// Props are added to the produced node.
	Props map[string]interface{} `yaml:"props,omitempty"`
}

// OverrideSpec is the manifest form of editor.Override. Components are
// referenced by registry name.
type OverrideSpec struct {
	Components map[string]string     `yaml:"components,omitempty"`
	Plugins    map[string]PluginSpec `yaml:"plugins,omitempty"`
	Enabled    map[string]bool       `yaml:"enabled,omitempty"`
}

// EditorSpec seeds the composed editor's document.
type EditorSpec struct {
	// Value is the initial document. Absent means the default document;
	// an empty list is kept empty unless Normalize is set.
	Value      []interface{} `yaml:"value,omitempty"`
	AutoSelect string        `yaml:"autoSelect,omitempty"`
	Normalize  bool          `yaml:"normalize,omitempty"`
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, plateerrors.NewIOError("READ_MANIFEST", "failed to read manifest", err).
			WithContext("path", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		if pe, ok := err.(*plateerrors.PlateError); ok {
			pe.WithContext("path", path)
		}
		return nil, err
	}
	return m, nil
}

// ParseManifest decodes a YAML manifest. Unknown fields are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, plateerrors.WrapValidation(err, plateerrors.CodeInvalidManifest, "failed to parse manifest")
	}
	return &m, nil
}

// Marshal encodes m as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
