package presets

import (
	"strings"

	"github.com/conneroisu/plate/internal/deserialize"
	"github.com/conneroisu/plate/internal/editor"
	"golang.org/x/net/html"
)

// Mark keys.
const (
	KeyBold          = "bold"
	KeyItalic        = "italic"
	KeyUnderline     = "underline"
	KeyStrikethrough = "strikethrough"
	KeyCode          = "code"
)

func mark(key string, names ...string) *editor.Plugin {
	return &editor.Plugin{
		Key: key,
		Handlers: editor.Handlers{
			DeserializeHTML: []editor.HTMLRule{{NodeNames: names, IsLeaf: true}},
		},
	}
}

// styleRule matches any element whose inline style sets property to one of
// values.
func styleRule(property string, values ...string) editor.HTMLRule {
	return editor.HTMLRule{
		NodeNames:  []string{"*"},
		Attributes: map[string]string{"style": "*"},
		IsLeaf:     true,
		Query: func(el *html.Node) bool {
			style, _ := deserialize.Attr(el, "style")
			for _, decl := range strings.Split(style, ";") {
				name, value, ok := strings.Cut(decl, ":")
				if !ok || strings.TrimSpace(strings.ToLower(name)) != property {
					continue
				}
				value = strings.TrimSpace(strings.ToLower(value))
				for _, v := range values {
					if value == v {
						return true
					}
				}
			}
			return false
		},
	}
}

// BoldPlugin marks bold text.
func BoldPlugin() *editor.Plugin {
	p := mark(KeyBold, "STRONG", "B")
	p.Handlers.DeserializeHTML = append(p.Handlers.DeserializeHTML,
		styleRule("font-weight", "bold", "600", "700", "800", "900"))
	return p
}

// ItalicPlugin marks italic text.
func ItalicPlugin() *editor.Plugin {
	p := mark(KeyItalic, "EM", "I")
	p.Handlers.DeserializeHTML = append(p.Handlers.DeserializeHTML,
		styleRule("font-style", "italic"))
	return p
}

// UnderlinePlugin marks underlined text.
func UnderlinePlugin() *editor.Plugin {
	p := mark(KeyUnderline, "U")
	p.Handlers.DeserializeHTML = append(p.Handlers.DeserializeHTML,
		styleRule("text-decoration", "underline"))
	return p
}

// StrikethroughPlugin marks struck-through text.
func StrikethroughPlugin() *editor.Plugin {
	return mark(KeyStrikethrough, "S", "DEL", "STRIKE")
}

// CodePlugin marks inline code. CODE inside PRE belongs to the code block.
func CodePlugin() *editor.Plugin {
	p := mark(KeyCode, "CODE")
	p.Handlers.DeserializeHTML[0].Query = func(el *html.Node) bool {
		return el.Parent == nil || !strings.EqualFold(el.Parent.Data, "pre")
	}
	return p
}

// MarkPlugins returns the basic mark plugins.
func MarkPlugins() []*editor.Plugin {
	return []*editor.Plugin{
		BoldPlugin(),
		ItalicPlugin(),
		UnderlinePlugin(),
		StrikethroughPlugin(),
		CodePlugin(),
	}
}
