package editor

import (
	"context"
	"fmt"

	"github.com/conneroisu/plate/internal/errors"
	"github.com/conneroisu/plate/internal/logging"
	"github.com/google/uuid"
)

// Config configures WithPlate.
type Config struct {
	// ID labels the editor instance. Required.
	ID string
	// Plugins are appended after the core plugins.
	Plugins []*Plugin
	// Override is applied after flattening.
	Override Override
	// RootPlugin transforms the synthetic root before flattening, e.g. to
	// configure a nested core plugin with ConfigurePlugin.
	RootPlugin func(root *Plugin) *Plugin
	// Logger, when set, is attached to the editor before composition.
	Logger logging.Logger
}

// WithPlate resolves the plugin chain for e and attaches it.
//
// The core plugins come first, then cfg.Plugins, all nested under a
// synthetic root. The tree is flattened depth-first with duplicate keys
// merged into their first occurrence, overrides are applied, and disabled
// plugins are removed with their descendants. Plugins already on e are
// reconciled against the core set: core plugins keep their position and
// state, missing core plugins are appended, and anything else is dropped.
//
// Composing twice from fresh editors with the same inputs yields the same
// plugin list. WithPlate fails with a configuration error when cfg.ID is
// empty, a plugin has no key, or no history handle is available afterwards.
// On failure e is left as it was passed in.
func WithPlate(e *Editor, cfg Config) (*Editor, error) {
	if e == nil {
		e = New()
	}
	if cfg.ID == "" {
		return nil, errors.NewConfigError(errors.CodeMissingID, "editor id is required")
	}
	prev := *e
	if cfg.Logger != nil {
		e.Logger = cfg.Logger
	}
	if e.Plugins == nil {
		e.Plugins = NewPluginMap(nil)
	}
	if e.API.ChildrenFactory == nil {
		e.API.ChildrenFactory = New().API.ChildrenFactory
	}

	ctx := context.Background()
	perf := logging.StartOperation(e.logger().WithComponent("composer"), "with_plate")

	plugins, err := resolvePlugins(e.PluginList, cfg)
	if err != nil {
		*e = prev
		perf.EndWithError(ctx, err)
		return nil, err
	}

	e.ID = cfg.ID
	e.Key = uuid.NewString()
	e.PluginList = plugins
	e.Plugins = NewPluginMap(plugins)

	if err := e.foldPlugins(); err != nil {
		*e = prev
		perf.EndWithError(ctx, err)
		return nil, err
	}

	if e.History == nil {
		err := errors.NewConfigError(errors.CodeHistoryMissing,
			"no enabled plugin provides a history handle").WithPlugin(KeyHistory)
		*e = prev
		perf.EndWithError(ctx, err)
		return nil, err
	}

	e.logger().WithComponent("composer").Debug(ctx, "Editor composed",
		"editor_id", e.ID,
		"editor_key", e.Key,
		"plugins", len(e.PluginList),
	)
	perf.End(ctx)
	return e, nil
}

// resolvePlugins runs the pure part of composition: reconcile, root
// transform, flatten, override and filter.
func resolvePlugins(existing []*Plugin, cfg Config) ([]*Plugin, error) {
	core := reconcileCore(existing, CorePlugins())

	children := make([]*Plugin, 0, len(core)+len(cfg.Plugins))
	children = append(children, core...)
	children = append(children, cfg.Plugins...)
	root := RootPlugin(children...)

	if cfg.RootPlugin != nil {
		root = cfg.RootPlugin(root)
		if root == nil {
			return nil, errors.NewConfigError(errors.CodeInvalidPlugin, "root plugin transform returned nil")
		}
		root.Key = KeyRoot
	}

	if err := validateKeys(root); err != nil {
		return nil, err
	}

	flat := Flatten([]*Plugin{root})
	if !cfg.Override.IsEmpty() {
		flat = ResolveOverrides(flat, cfg.Override)
	}
	flat = filterDisabled(flat)

	for i, p := range flat {
		if p.Type == "" {
			next := p.Clone()
			next.Type = p.Key
			flat[i] = next
		}
	}
	return flat, nil
}

// reconcileCore merges plugin state left on an editor by an earlier
// composition into fresh core descriptors. Core plugins found on the editor
// keep their relative order and their options, type, priority, component
// and enabled flag; their handlers come from the fresh descriptor. Missing
// core plugins follow in core order. Non-core plugins are dropped.
func reconcileCore(existing []*Plugin, core []*Plugin) []*Plugin {
	if len(existing) == 0 {
		return core
	}

	fresh := make(map[string]*Plugin, len(core))
	for _, p := range core {
		fresh[p.Key] = p
	}

	out := make([]*Plugin, 0, len(core))
	seen := make(map[string]bool, len(core))
	for _, p := range existing {
		base, ok := fresh[p.Key]
		if !ok || seen[p.Key] {
			continue
		}
		seen[p.Key] = true

		state := p.Clone()
		state.Handlers = Handlers{}
		state.Plugins = nil
		state.ParentKeys = nil
		out = append(out, Merge(base, state))
	}
	for _, p := range core {
		if !seen[p.Key] {
			out = append(out, p)
		}
	}
	return out
}

func validateKeys(p *Plugin) error {
	if p == nil {
		return errors.NewConfigError(errors.CodeInvalidPlugin, "nil plugin descriptor")
	}
	if p.Key == "" {
		return errors.NewConfigError(errors.CodeInvalidPlugin, "plugin descriptor has no key").
			WithContext("type", p.Type)
	}
	for _, child := range p.Plugins {
		if err := validateKeys(child); err != nil {
			if pe, ok := err.(*errors.PlateError); ok && pe.Plugin == "" {
				pe.WithContext("parent", p.Key)
			}
			return err
		}
	}
	return nil
}

// foldPlugins rebuilds the editor's capability tables from the plugin list,
// running ExtendEditor hooks in list order.
func (e *Editor) foldPlugins() error {
	e.handlers = handlerTables{}
	e.inlineTypes = nil
	e.voidTypes = nil
	e.MaxLength = 0

	for _, p := range e.PluginList {
		if p.Handlers.ExtendEditor != nil {
			if err := p.Handlers.ExtendEditor(e, p); err != nil {
				return errors.NewConfigError(errors.CodeExtendEditorFailed,
					fmt.Sprintf("plugin %q failed to extend the editor", p.Key)).
					WithPlugin(p.Key).WithCause(err)
			}
		}
		if p.Handlers.OnKeyDown != nil {
			e.handlers.keyDown = append(e.handlers.keyDown, boundKeyDown{plugin: p, fn: p.Handlers.OnKeyDown})
		}
		if p.Handlers.OnChange != nil {
			e.handlers.change = append(e.handlers.change, boundChange{plugin: p, fn: p.Handlers.OnChange})
		}
		for _, fn := range p.Handlers.Normalize {
			e.handlers.normalize = append(e.handlers.normalize, boundNormalize{plugin: p, fn: fn})
		}
	}
	return nil
}

// CreateEditor composes a new editor and bootstraps its document.
func CreateEditor(cfg Config, opts SlateOptions) (*Editor, error) {
	e, err := WithPlate(New(), cfg)
	if err != nil {
		return nil, err
	}
	return WithSlate(e, opts)
}
