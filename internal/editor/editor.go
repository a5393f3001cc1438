// Package editor composes editors from plugin descriptors.
//
// WithPlate turns the fixed core plugins, the caller's plugin tree and a set
// of overrides into one flat, ordered, deduplicated plugin list attached to
// an Editor. WithSlate seeds the editor's document value and selection and
// runs the normalization pass the plugin list participates in.
//
// An Editor has a single writer: the composer and the bootstrap mutate the
// editor passed to them in place and must not be called concurrently on the
// same instance.
package editor

import (
	"fmt"

	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/errors"
	"github.com/conneroisu/plate/internal/logging"
)

// Editor is a composed editor instance.
type Editor struct {
	ID  string
	Key string

	History *History
	Logger  logging.Logger

	// PluginList is the resolved plugin chain in composition order.
	PluginList []*Plugin
	// Plugins maps keys to the entries of PluginList, in the same order.
	Plugins *PluginMap

	Children   []*document.Node
	Selection  *document.Range
	Operations []document.Operation

	API API

	// MaxLength caps the document's text length for fragment insertion.
	// Zero means unlimited.
	MaxLength int
	// MaxNormalizeIterations overrides the normalization ceiling when positive.
	MaxNormalizeIterations int

	handlers    handlerTables
	inlineTypes map[string]bool
	voidTypes   map[string]bool
}

// API holds editor capabilities that plugins may replace.
type API struct {
	// ChildrenFactory produces the default empty document.
	ChildrenFactory func() []*document.Node
}

type boundKeyDown struct {
	plugin *Plugin
	fn     KeyDownHandler
}

type boundChange struct {
	plugin *Plugin
	fn     ChangeHandler
}

type boundNormalize struct {
	plugin *Plugin
	fn     NormalizeFunc
}

// handlerTables are the capability slots of every plugin folded in list
// order.
type handlerTables struct {
	keyDown   []boundKeyDown
	change    []boundChange
	normalize []boundNormalize
}

// New returns a bare editor with no plugins and no document.
func New() *Editor {
	return &Editor{
		Plugins: NewPluginMap(nil),
		API: API{
			ChildrenFactory: func() []*document.Node {
				return []*document.Node{document.EmptyParagraph()}
			},
		},
	}
}

// Log returns the editor's logger, or a no-op logger when none is attached.
func (e *Editor) Log() logging.Logger {
	return e.logger()
}

func (e *Editor) logger() logging.Logger {
	if e.Logger == nil {
		return logging.NewNopLogger()
	}
	return e.Logger
}

// PluginMap is an insertion-ordered key to plugin mapping.
type PluginMap struct {
	keys  []string
	byKey map[string]*Plugin
}

// NewPluginMap indexes plugins by key, keeping their order.
func NewPluginMap(plugins []*Plugin) *PluginMap {
	m := &PluginMap{
		keys:  make([]string, 0, len(plugins)),
		byKey: make(map[string]*Plugin, len(plugins)),
	}
	for _, p := range plugins {
		if _, ok := m.byKey[p.Key]; !ok {
			m.keys = append(m.keys, p.Key)
		}
		m.byKey[p.Key] = p
	}
	return m
}

// Get looks up a plugin by key.
func (m *PluginMap) Get(key string) (*Plugin, bool) {
	if m == nil {
		return nil, false
	}
	p, ok := m.byKey[key]
	return p, ok
}

// Keys returns the keys in insertion order.
func (m *PluginMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of plugins.
func (m *PluginMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// GetPlugin returns the resolved plugin for key. A miss is not an error: it
// yields an empty descriptor carrying only the key, so optional-feature
// probes can read options without a nil check. Use Lookup to tell a miss
// from a hit.
func GetPlugin(e *Editor, key string) *Plugin {
	if p, ok := e.Plugins.Get(key); ok {
		return p
	}
	return &Plugin{Key: key, Type: key, Options: Options{}}
}

// Lookup returns the resolved plugin for key and whether it exists.
func (e *Editor) Lookup(key string) (*Plugin, bool) {
	return e.Plugins.Get(key)
}

// IsPluginEnabled reports whether key resolved to an enabled plugin.
func IsPluginEnabled(e *Editor, key string) bool {
	_, ok := e.Plugins.Get(key)
	return ok
}

// RequirePlugin returns the plugin for key or a not-found error.
func RequirePlugin(e *Editor, key string) (*Plugin, error) {
	if p, ok := e.Plugins.Get(key); ok {
		return p, nil
	}
	return nil, errors.NewNotFoundError(errors.CodePluginNotFound,
		fmt.Sprintf("plugin %q is not part of editor %q", key, e.ID)).WithPlugin(key)
}

// PluginByType returns the first plugin in list order whose node type is t.
func (e *Editor) PluginByType(t string) (*Plugin, bool) {
	for _, p := range e.PluginList {
		if p.NodeType() == t {
			return p, true
		}
	}
	return nil, false
}

// IsInline reports whether element n renders inline.
func (e *Editor) IsInline(n *document.Node) bool {
	return n != nil && n.IsElement() && e.inlineTypes[n.Type]
}

// IsVoid reports whether element n has no editable content.
func (e *Editor) IsVoid(n *document.Node) bool {
	return n != nil && n.IsElement() && e.voidTypes[n.Type]
}

// HandleKeyDown runs the key-down pipeline in plugin order and reports
// whether a handler consumed the event.
func (e *Editor) HandleKeyDown(ev KeyEvent) bool {
	for _, h := range e.handlers.keyDown {
		if h.fn(e, h.plugin, ev) {
			return true
		}
	}
	return false
}

// NotifyChange runs the change pipeline in plugin order.
func (e *Editor) NotifyChange() {
	for _, h := range e.handlers.change {
		if h.fn(e, h.plugin) {
			return
		}
	}
}

// InsertNodes inserts nodes at path and records the operations.
func (e *Editor) InsertNodes(at document.Path, nodes ...*document.Node) error {
	children, err := document.Insert(e.Children, at, nodes...)
	if err != nil {
		return err
	}
	e.Children = children

	at = at.Clone()
	for i, n := range nodes {
		p := at.Clone()
		p[len(p)-1] += i
		e.apply(document.NewInsertOperation(p, n))
	}
	return nil
}

// InsertFragment inserts nodes at path, enforcing MaxLength.
func (e *Editor) InsertFragment(at document.Path, nodes ...*document.Node) error {
	if e.MaxLength > 0 && document.Length(e.Children)+document.Length(nodes) > e.MaxLength {
		return errors.NewValidationError(errors.CodeLengthExceeded,
			fmt.Sprintf("fragment would exceed the maximum length of %d", e.MaxLength)).
			WithPlugin(KeyLength)
	}
	return e.InsertNodes(at, nodes...)
}

// RemoveNode removes the node at path and records the operation.
func (e *Editor) RemoveNode(at document.Path) error {
	children, removed, err := document.Remove(e.Children, at)
	if err != nil {
		return err
	}
	e.Children = children
	e.apply(document.NewRemoveOperation(at, removed))
	return nil
}

// SetNodeType changes the type of the element at path.
func (e *Editor) SetNodeType(at document.Path, typ string) error {
	n, ok := document.Get(e.Children, at)
	if !ok || n.IsText() {
		return errors.NewValidationError(errors.CodeInvalidPath,
			fmt.Sprintf("no element at path %s", at)).WithContext("path", at.Clone())
	}
	old := n.Type
	n.Type = typ
	e.apply(document.NewSetOperation(at,
		map[string]interface{}{"type": old},
		map[string]interface{}{"type": typ}))
	return nil
}

func (e *Editor) apply(op document.Operation) {
	e.Operations = append(e.Operations, op)
	if e.History != nil {
		e.History.Record(op)
	}
}
