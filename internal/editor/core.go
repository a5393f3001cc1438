package editor

import (
	"github.com/conneroisu/plate/internal/logging"
)

// Core plugin keys.
const (
	KeyRoot            = "root"
	KeyDebug           = "debug"
	KeySlateExtension  = "slateExtension"
	KeyDOM             = "dom"
	KeyHistory         = "history"
	KeyPlateAPI        = "plateApi"
	KeyInlineVoid      = "inlineVoid"
	KeyInsertData      = "insertData"
	KeyEventEditor     = "eventEditor"
	KeyLength          = "length"
	KeyDeserializeHTML = "deserializeHtml"
	KeyDeserializeAST  = "deserializeAst"
)

// CoreKeys returns the keys every composed editor starts with, in order.
// The synthetic root comes first.
func CoreKeys() []string {
	core := CorePlugins()
	keys := make([]string, 0, len(core)+1)
	keys = append(keys, KeyRoot)
	for _, p := range core {
		keys = append(keys, p.Key)
	}
	return keys
}

// RootPlugin returns the synthetic root whose nested plugins are the whole
// plugin tree.
func RootPlugin(children ...*Plugin) *Plugin {
	return &Plugin{Key: KeyRoot, Plugins: children}
}

// CorePlugins returns fresh descriptors for the built-in plugins, in their
// fixed order.
func CorePlugins() []*Plugin {
	return []*Plugin{
		DebugPlugin(),
		{Key: KeySlateExtension},
		{Key: KeyDOM, Options: Options{"scrollMode": "last"}},
		HistoryPlugin(),
		{Key: KeyPlateAPI},
		InlineVoidPlugin(),
		{Key: KeyInsertData},
		{Key: KeyEventEditor},
		LengthPlugin(),
		{Key: KeyDeserializeHTML},
		{Key: KeyDeserializeAST},
	}
}

// DebugPlugin attaches a logger to the editor unless one is already set.
func DebugPlugin() *Plugin {
	return &Plugin{
		Key: KeyDebug,
		Options: Options{
			"logLevel":  "error",
			"logFormat": "text",
		},
		Handlers: Handlers{
			ExtendEditor: func(e *Editor, p *Plugin) error {
				if e.Logger != nil {
					return nil
				}
				level, err := logging.ParseLevel(p.Options.String("logLevel"))
				if err != nil {
					return err
				}
				e.Logger = logging.NewLogger(&logging.LoggerConfig{
					Level:  level,
					Format: p.Options.String("logFormat"),
				}).WithComponent("editor").With("editor_id", e.ID)
				return nil
			},
		},
	}
}

// HistoryPlugin provides the editor's history handle.
func HistoryPlugin() *Plugin {
	return &Plugin{
		Key:     KeyHistory,
		Options: Options{"maxEntries": 100},
		Handlers: Handlers{
			ExtendEditor: func(e *Editor, p *Plugin) error {
				if e.History == nil {
					maxEntries, _ := p.Options.Int("maxEntries")
					e.History = NewHistory(maxEntries)
				}
				return nil
			},
		},
	}
}

// InlineVoidPlugin derives IsInline and IsVoid from the isInline and isVoid
// options of the other plugins.
func InlineVoidPlugin() *Plugin {
	return &Plugin{
		Key: KeyInlineVoid,
		Handlers: Handlers{
			ExtendEditor: func(e *Editor, _ *Plugin) error {
				e.inlineTypes = make(map[string]bool)
				e.voidTypes = make(map[string]bool)
				for _, p := range e.PluginList {
					if p.Options.Bool("isInline") {
						e.inlineTypes[p.NodeType()] = true
					}
					if p.Options.Bool("isVoid") {
						e.voidTypes[p.NodeType()] = true
					}
				}
				return nil
			},
		},
	}
}

// LengthPlugin caps the document length when its maxLength option is set.
func LengthPlugin() *Plugin {
	return &Plugin{
		Key: KeyLength,
		Handlers: Handlers{
			ExtendEditor: func(e *Editor, p *Plugin) error {
				if maxLength, ok := p.Options.Int("maxLength"); ok && maxLength > 0 {
					e.MaxLength = maxLength
				}
				return nil
			},
		},
	}
}
