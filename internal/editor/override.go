package editor

import "github.com/a-h/templ"

// Override holds caller patches applied after flattening.
type Override struct {
	// Components replaces plugin components by key. An override carries
	// priority 0: it yields to a declared component with positive priority.
	Components map[string]templ.Component
	// Plugins deep-merges a partial descriptor onto the plugin with that key.
	Plugins map[string]*Plugin
	// Enabled sets the enabled flag by key. A disabled plugin is removed
	// along with everything nested under it.
	Enabled map[string]bool
}

// IsEmpty reports whether o has nothing to apply.
func (o Override) IsEmpty() bool {
	return len(o.Components) == 0 && len(o.Plugins) == 0 && len(o.Enabled) == 0
}

// ResolveOverrides applies o to a flattened plugin list in three passes:
// property patches, then component overrides, then enabled flags. Keys with
// no matching plugin are ignored. The input list is not modified.
func ResolveOverrides(plugins []*Plugin, o Override) []*Plugin {
	l := newFlatList()
	for _, p := range plugins {
		l.index[p.Key] = len(l.plugins)
		l.plugins = append(l.plugins, p)
	}

	applyPluginOverrides(l, o.Plugins)
	applyComponentOverrides(l.plugins, o.Components)
	applyEnabledOverrides(l.plugins, o.Enabled)

	return l.plugins
}

func applyPluginOverrides(l *flatList, patches map[string]*Plugin) {
	if len(patches) == 0 {
		return
	}
	// Iterate over a snapshot so plugins introduced by a patch's nested
	// children are not themselves re-patched.
	current := append([]*Plugin(nil), l.plugins...)
	for _, p := range current {
		patch, ok := patches[p.Key]
		if !ok || patch == nil {
			continue
		}
		i, _ := l.lookup(p.Key)
		merged := Merge(l.plugins[i], patch)
		merged.ParentKeys = l.plugins[i].ParentKeys
		nested := merged.Plugins
		merged.Plugins = nil
		l.plugins[i] = merged

		parents := append(append([]string(nil), merged.ParentKeys...), merged.Key)
		for _, child := range nested {
			l.add(child, parents)
		}
	}
}

func applyComponentOverrides(plugins []*Plugin, components map[string]templ.Component) {
	if len(components) == 0 {
		return
	}
	for i, p := range plugins {
		c, ok := components[p.Key]
		if !ok || c == nil {
			continue
		}
		if p.Component != nil && p.Priority > 0 {
			continue
		}
		next := p.Clone()
		next.Component = c
		plugins[i] = next
	}
}

func applyEnabledOverrides(plugins []*Plugin, enabled map[string]bool) {
	if len(enabled) == 0 {
		return
	}
	for i, p := range plugins {
		v, ok := enabled[p.Key]
		if !ok {
			continue
		}
		next := p.Clone()
		next.Enabled = Bool(v)
		plugins[i] = next
	}
}

// filterDisabled drops disabled plugins and every plugin nested under one.
func filterDisabled(plugins []*Plugin) []*Plugin {
	disabled := make(map[string]bool)
	for _, p := range plugins {
		if !p.IsEnabled() {
			disabled[p.Key] = true
		}
	}
	if len(disabled) == 0 {
		return plugins
	}

	out := make([]*Plugin, 0, len(plugins)-len(disabled))
	for _, p := range plugins {
		if disabled[p.Key] || hasDisabledAncestor(p, disabled) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasDisabledAncestor(p *Plugin, disabled map[string]bool) bool {
	for _, k := range p.ParentKeys {
		if disabled[k] {
			return true
		}
	}
	return false
}
