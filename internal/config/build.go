package config

import (
	"fmt"

	"github.com/a-h/templ"
	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/editor"
	plateerrors "github.com/conneroisu/plate/internal/errors"
	"github.com/conneroisu/plate/internal/presets"
	"github.com/conneroisu/plate/internal/registry"
	"golang.org/x/net/html"
)

// Build validates m and turns it into the inputs of editor.CreateEditor.
// Component names are resolved through reg, which may be nil when the
// manifest references no components.
func (m *Manifest) Build(reg *registry.ComponentRegistry) (editor.Config, editor.SlateOptions, error) {
	if result := m.Validate(); result.HasErrors() {
		return editor.Config{}, editor.SlateOptions{}, result.Err()
	}

	b := &builder{registry: reg}

	var plugins []*editor.Plugin
	for _, name := range m.Presets {
		preset, _ := presets.Lookup(name)
		plugins = append(plugins, preset...)
	}
	for _, spec := range m.Plugins {
		p, err := b.plugin(spec)
		if err != nil {
			return editor.Config{}, editor.SlateOptions{}, err
		}
		plugins = append(plugins, p)
	}

	override, err := b.override(m.Override)
	if err != nil {
		return editor.Config{}, editor.SlateOptions{}, err
	}

	cfg := editor.Config{
		ID:       m.ID,
		Plugins:  plugins,
		Override: override,
	}
	if len(m.Configure) > 0 {
		configure := m.Configure
		cfg.RootPlugin = func(root *editor.Plugin) *editor.Plugin {
			for _, key := range sortedKeys(configure) {
				root = root.ConfigurePlugin(key, editor.Options(configure[key]))
			}
			return root
		}
	}

	slate, err := m.Editor.slateOptions()
	if err != nil {
		return editor.Config{}, editor.SlateOptions{}, err
	}
	return cfg, slate, nil
}

// CreateEditor builds m and composes the editor it describes.
func (m *Manifest) CreateEditor(reg *registry.ComponentRegistry) (*editor.Editor, error) {
	cfg, slate, err := m.Build(reg)
	if err != nil {
		return nil, err
	}
	return editor.CreateEditor(cfg, slate)
}

func (s EditorSpec) slateOptions() (editor.SlateOptions, error) {
	autoSelect, err := editor.ParseAutoSelect(s.AutoSelect)
	if err != nil {
		return editor.SlateOptions{}, err
	}

	opts := editor.SlateOptions{
		AutoSelect:            autoSelect,
		ShouldNormalizeEditor: s.Normalize,
	}
	if s.Value != nil {
		value, err := document.FromValue(s.Value)
		if err != nil {
			return editor.SlateOptions{}, plateerrors.WrapValidation(err, plateerrors.CodeInvalidManifest,
				"editor.value is not a valid document")
		}
		opts.Value = value
	}
	return opts, nil
}

type builder struct {
	registry *registry.ComponentRegistry
}

func (b *builder) component(name string) (templ.Component, error) {
	if b.registry == nil {
		return nil, plateerrors.NewNotFoundError(plateerrors.CodeUnknownComponent,
			fmt.Sprintf("component %q referenced without a component registry", name))
	}
	return b.registry.Resolve(name)
}

// plugin converts a spec. The key comes from the spec, or from the preset
// when the spec has none.
func (b *builder) plugin(spec PluginSpec) (*editor.Plugin, error) {
	base := &editor.Plugin{}
	if spec.Preset != "" {
		preset, err := presetPlugin(spec.Preset)
		if err != nil {
			return nil, plateerrors.NewValidationError(plateerrors.CodeInvalidManifest, err.Error())
		}
		base = preset
	}

	patch := &editor.Plugin{
		Key:      spec.Key,
		Type:     spec.Type,
		Priority: spec.Priority,
		Enabled:  spec.Enabled,
		Handlers: editor.Handlers{DeserializeHTML: htmlRules(spec.HTML)},
	}
	if len(spec.Options) > 0 {
		patch.Options = editor.Options(spec.Options)
	}
	if spec.Component != "" {
		c, err := b.component(spec.Component)
		if err != nil {
			return nil, plateerrors.WrapConfig(err, plateerrors.CodeUnknownComponent,
				"cannot resolve plugin component").WithPlugin(spec.Key)
		}
		patch.Component = c
	}
	for _, child := range spec.Plugins {
		p, err := b.plugin(child)
		if err != nil {
			return nil, err
		}
		patch.Plugins = append(patch.Plugins, p)
	}

	p := base.Extend(patch)
	if spec.Key != "" {
		p.Key = spec.Key
	}
	return p, nil
}

func (b *builder) override(spec OverrideSpec) (editor.Override, error) {
	var o editor.Override

	if len(spec.Components) > 0 {
		o.Components = make(map[string]templ.Component, len(spec.Components))
		for _, key := range sortedKeys(spec.Components) {
			c, err := b.component(spec.Components[key])
			if err != nil {
				return o, plateerrors.WrapConfig(err, plateerrors.CodeUnknownComponent,
					"cannot resolve override component").WithPlugin(key)
			}
			o.Components[key] = c
		}
	}

	if len(spec.Plugins) > 0 {
		o.Plugins = make(map[string]*editor.Plugin, len(spec.Plugins))
		for _, key := range sortedKeys(spec.Plugins) {
			p, err := b.plugin(spec.Plugins[key])
			if err != nil {
				return o, err
			}
			o.Plugins[key] = p
		}
	}

	if len(spec.Enabled) > 0 {
		o.Enabled = make(map[string]bool, len(spec.Enabled))
		for k, v := range spec.Enabled {
			o.Enabled[k] = v
		}
	}
	return o, nil
}

func htmlRules(specs []HTMLRuleSpec) []editor.HTMLRule {
	if len(specs) == 0 {
		return nil
	}
	rules := make([]editor.HTMLRule, len(specs))
	for i, spec := range specs {
		rule := editor.HTMLRule{
			NodeNames:  spec.NodeNames,
			Attributes: spec.Attributes,
			IsLeaf:     spec.IsLeaf,
		}
		if len(spec.Props) > 0 {
			props := spec.Props
			leaf := spec.IsLeaf
			rule.GetNode = func(_ *html.Node, p *editor.Plugin) map[string]interface{} {
				out := make(map[string]interface{}, len(props)+1)
				if leaf {
					out[p.NodeType()] = true
				} else {
					out["type"] = p.NodeType()
				}
				for k, v := range props {
					out[k] = v
				}
				return out
			}
		}
		rules[i] = rule
	}
	return rules
}
