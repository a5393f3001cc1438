package presets

import (
	"sort"

	"github.com/conneroisu/plate/internal/editor"
)

var catalog = map[string]func() []*editor.Plugin{
	"paragraph":  func() []*editor.Plugin { return []*editor.Plugin{ParagraphPlugin()} },
	"heading":    HeadingPlugins,
	"blockquote": func() []*editor.Plugin { return []*editor.Plugin{BlockquotePlugin()} },
	"code-block": func() []*editor.Plugin { return []*editor.Plugin{CodeBlockPlugin()} },
	"link":       func() []*editor.Plugin { return []*editor.Plugin{LinkPlugin()} },
	"image":      func() []*editor.Plugin { return []*editor.Plugin{ImagePlugin()} },
	"hr":         func() []*editor.Plugin { return []*editor.Plugin{HorizontalRulePlugin()} },
	"list":       func() []*editor.Plugin { return []*editor.Plugin{ListPlugin()} },
	"marks":      MarkPlugins,
	"basic":      Basic,
}

// Basic returns every element and mark preset, blocks first.
func Basic() []*editor.Plugin {
	plugins := []*editor.Plugin{ParagraphPlugin()}
	plugins = append(plugins, HeadingPlugins()...)
	plugins = append(plugins,
		BlockquotePlugin(),
		CodeBlockPlugin(),
		ListPlugin(),
		HorizontalRulePlugin(),
		LinkPlugin(),
		ImagePlugin(),
	)
	return append(plugins, MarkPlugins()...)
}

// Lookup returns fresh descriptors for the named preset.
func Lookup(name string) ([]*editor.Plugin, bool) {
	fn, ok := catalog[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Names lists the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
