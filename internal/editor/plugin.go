package editor

import (
	"github.com/a-h/templ"
	"github.com/conneroisu/plate/internal/document"
	"github.com/spf13/cast"
	"golang.org/x/net/html"
)

// Plugin describes one editor plugin: its identity, nested sub-plugins,
// behaviour hooks, options and composition metadata.
//
// Descriptors are values by convention. Every method that changes a
// descriptor returns a new one and leaves the receiver untouched; unchanged
// nested plugins are shared between the old and the new tree.
type Plugin struct {
	// Key identifies the plugin. Keys are unique across a composed editor.
	Key string
	// Type tags the document nodes this plugin handles. Defaults to Key.
	Type string
	// Priority arbitrates component and scalar handler conflicts; higher wins.
	Priority int
	// Enabled is tri-state: nil means "not specified" and resolves to true.
	Enabled *bool
	// Component renders nodes of Type. Compared by identity only.
	Component templ.Component
	// Options is the plugin's configuration record.
	Options Options
	// Handlers holds the plugin's capability slots.
	Handlers Handlers
	// Plugins are nested sub-plugins, keyed within this plugin's scope.
	Plugins []*Plugin

	// ParentKeys is the chain of ancestor keys, outermost first. It is
	// recorded when the descriptor tree is flattened.
	ParentKeys []string
}

// Handlers are the capability slots a plugin can fill. Scalar slots follow
// the same priority rule as Component when merged; list slots concatenate
// with the base entries first.
type Handlers struct {
	// ExtendEditor runs once per composition, in plugin list order.
	ExtendEditor ExtendEditorFunc
	// OnKeyDown joins the key-down pipeline.
	OnKeyDown KeyDownHandler
	// OnChange joins the change pipeline.
	OnChange ChangeHandler

	// Normalize rules run in plugin list order before the editor defaults.
	Normalize []NormalizeFunc
	// DeserializeHTML rules are consulted by the HTML pipeline.
	DeserializeHTML []HTMLRule
}

// ExtendEditorFunc attaches plugin capabilities to a composed editor.
type ExtendEditorFunc func(e *Editor, p *Plugin) error

// KeyDownHandler handles a key press. Returning true stops the pipeline.
type KeyDownHandler func(e *Editor, p *Plugin, ev KeyEvent) bool

// ChangeHandler is notified after document changes. Returning true stops
// the pipeline.
type ChangeHandler func(e *Editor, p *Plugin) bool

// NormalizeFunc inspects one entry and applies at most one fix. It reports
// whether it changed the document. The root entry has an empty path.
type NormalizeFunc func(e *Editor, p *Plugin, entry document.Entry) (bool, error)

// HTMLRule declares which HTML elements a plugin deserializes.
type HTMLRule struct {
	// NodeNames lists upper-case tag names ("P", "H1"). "*" matches any.
	NodeNames []string
	// Attributes must all be present; an empty or "*" value matches any value.
	Attributes map[string]string
	// Query is an optional extra predicate.
	Query func(el *html.Node) bool
	// IsLeaf marks the result as text marks rather than an element.
	IsLeaf bool
	// GetNode returns the properties to set on the produced node. When nil,
	// elements get {type: plugin type} and leaves get {plugin type: true}.
	GetNode func(el *html.Node, p *Plugin) map[string]interface{}
}

// KeyEvent is a key press delivered to the key-down pipeline.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// Options is a plugin configuration record.
type Options map[string]interface{}

// Get returns a raw option value.
func (o Options) Get(name string) (interface{}, bool) {
	v, ok := o[name]
	return v, ok
}

// String returns an option coerced to a string.
func (o Options) String(name string) string {
	return cast.ToString(o[name])
}

// Int returns an option coerced to an int. The second result is false when
// the option is absent or not numeric.
func (o Options) Int(name string) (int, bool) {
	v, ok := o[name]
	if !ok || v == nil {
		return 0, false
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Bool returns an option coerced to a bool; absent options are false.
func (o Options) Bool(name string) bool {
	return cast.ToBool(o[name])
}

func (o Options) clone() Options {
	if o == nil {
		return nil
	}
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// GetOption returns an option asserted to T.
func GetOption[T any](p *Plugin, name string) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}
	v, ok := p.Options[name]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Bool returns a pointer to v, for the tri-state Enabled field.
func Bool(v bool) *bool {
	return &v
}

// CreatePlugin returns an independent copy of def, suitable as a base for
// further Extend calls.
func CreatePlugin(def Plugin) *Plugin {
	return def.Clone()
}

// Clone returns a copy of p. Slices and maps owned by p are copied; nested
// plugins are shared since they are never mutated in place.
func (p *Plugin) Clone() *Plugin {
	if p == nil {
		return nil
	}
	c := *p
	if p.Enabled != nil {
		c.Enabled = Bool(*p.Enabled)
	}
	c.Options = p.Options.clone()
	c.Handlers = p.Handlers.clone()
	if p.Plugins != nil {
		c.Plugins = append([]*Plugin(nil), p.Plugins...)
	}
	if p.ParentKeys != nil {
		c.ParentKeys = append([]string(nil), p.ParentKeys...)
	}
	return &c
}

func (h Handlers) clone() Handlers {
	c := h
	if h.Normalize != nil {
		c.Normalize = append([]NormalizeFunc(nil), h.Normalize...)
	}
	if h.DeserializeHTML != nil {
		c.DeserializeHTML = append([]HTMLRule(nil), h.DeserializeHTML...)
	}
	return c
}

// IsEnabled resolves the tri-state Enabled field.
func (p *Plugin) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// NodeType returns Type, falling back to Key.
func (p *Plugin) NodeType() string {
	if p.Type != "" {
		return p.Type
	}
	return p.Key
}

// Extend merges patch onto p, with patch as the incoming side.
func (p *Plugin) Extend(patch *Plugin) *Plugin {
	return Merge(p, patch)
}

// Configure shallow-merges options onto p's options.
func (p *Plugin) Configure(options Options) *Plugin {
	return Merge(p, &Plugin{Options: options})
}

// ExtendPlugin extends the nested plugin with the given key, searching the
// tree depth-first. When no such plugin exists the patch is added as a new
// child of p under that key.
func (p *Plugin) ExtendPlugin(key string, patch *Plugin) *Plugin {
	if next, ok := p.replaceNested(key, func(child *Plugin) *Plugin {
		return Merge(child, patch)
	}); ok {
		return next
	}

	child := patch.Clone()
	if child == nil {
		child = &Plugin{}
	}
	child.Key = key
	child.ParentKeys = nil

	out := p.Clone()
	out.Plugins = append(out.Plugins, child)
	return out
}

// ConfigurePlugin merges options into the nested plugin with the given key.
// Unlike ExtendPlugin it never creates a plugin; a missing key leaves the
// tree unchanged.
func (p *Plugin) ConfigurePlugin(key string, options Options) *Plugin {
	next, _ := p.replaceNested(key, func(child *Plugin) *Plugin {
		return child.Configure(options)
	})
	return next
}

// FindPlugin searches the nested tree depth-first for key.
func (p *Plugin) FindPlugin(key string) (*Plugin, bool) {
	for _, child := range p.Plugins {
		if child.Key == key {
			return child, true
		}
		if found, ok := child.FindPlugin(key); ok {
			return found, true
		}
	}
	return nil, false
}

// replaceNested rebuilds the path from p down to the first nested plugin
// with the given key, replacing that plugin with fn's result. Untouched
// subtrees are shared.
func (p *Plugin) replaceNested(key string, fn func(*Plugin) *Plugin) (*Plugin, bool) {
	for i, child := range p.Plugins {
		var next *Plugin
		if child.Key == key {
			next = fn(child)
		} else if replaced, ok := child.replaceNested(key, fn); ok {
			next = replaced
		} else {
			continue
		}
		out := p.Clone()
		out.Plugins[i] = next
		return out, true
	}
	return p, false
}
