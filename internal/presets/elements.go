// Package presets provides ready-made plugin descriptors for common block,
// inline and mark types, with the HTML rules to deserialize them.
package presets

import (
	"strings"

	"github.com/conneroisu/plate/internal/deserialize"
	"github.com/conneroisu/plate/internal/editor"
	"github.com/conneroisu/plate/internal/validation"
	"golang.org/x/net/html"
)

// Element keys.
const (
	KeyParagraph  = "p"
	KeyBlockquote = "blockquote"
	KeyCodeBlock  = "code_block"
	KeyLink       = "a"
	KeyImage      = "img"
	KeyBulleted   = "ul"
	KeyNumbered   = "ol"
	KeyListItem   = "li"
	KeyHR         = "hr"
)

// HeadingKeys are the keys of the heading plugins, h1 to h6.
var HeadingKeys = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

func element(key string, names ...string) *editor.Plugin {
	return &editor.Plugin{
		Key: key,
		Handlers: editor.Handlers{
			DeserializeHTML: []editor.HTMLRule{{NodeNames: names}},
		},
	}
}

// ParagraphPlugin handles paragraphs.
func ParagraphPlugin() *editor.Plugin {
	return element(KeyParagraph, "P")
}

// HeadingPlugins returns one plugin per heading level.
func HeadingPlugins() []*editor.Plugin {
	plugins := make([]*editor.Plugin, len(HeadingKeys))
	for i, key := range HeadingKeys {
		plugins[i] = element(key, strings.ToUpper(key))
	}
	return plugins
}

// BlockquotePlugin handles block quotes.
func BlockquotePlugin() *editor.Plugin {
	return element(KeyBlockquote, "BLOCKQUOTE")
}

// CodeBlockPlugin handles preformatted code. The language is read from a
// "language-*" class on the PRE element or its CODE child.
func CodeBlockPlugin() *editor.Plugin {
	p := element(KeyCodeBlock, "PRE")
	p.Handlers.DeserializeHTML[0].GetNode = func(el *html.Node, p *editor.Plugin) map[string]interface{} {
		props := map[string]interface{}{"type": p.NodeType()}
		if lang := codeLanguage(el); lang != "" {
			props["lang"] = lang
		}
		return props
	}
	return p
}

func codeLanguage(el *html.Node) string {
	for n := el; n != nil; n = n.FirstChild {
		if n.Type != html.ElementNode {
			continue
		}
		class, _ := deserialize.Attr(n, "class")
		for _, c := range strings.Fields(class) {
			if lang, ok := strings.CutPrefix(c, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

// LinkPlugin handles inline links. Anchors without an href, or with one
// that fails URL validation, are unwrapped to their text.
func LinkPlugin() *editor.Plugin {
	return &editor.Plugin{
		Key:     KeyLink,
		Options: editor.Options{"isInline": true},
		Handlers: editor.Handlers{
			DeserializeHTML: []editor.HTMLRule{{
				NodeNames: []string{"A"},
				GetNode: func(el *html.Node, p *editor.Plugin) map[string]interface{} {
					href, ok := deserialize.Attr(el, "href")
					if !ok || validation.ValidateURL(href) != nil {
						return nil
					}
					props := map[string]interface{}{"type": p.NodeType(), "url": href}
					if target, ok := deserialize.Attr(el, "target"); ok {
						props["target"] = target
					}
					return props
				},
			}},
		},
	}
}

// ImagePlugin handles void images. Images without a valid src are dropped.
func ImagePlugin() *editor.Plugin {
	return &editor.Plugin{
		Key:     KeyImage,
		Options: editor.Options{"isVoid": true},
		Handlers: editor.Handlers{
			DeserializeHTML: []editor.HTMLRule{{
				NodeNames: []string{"IMG"},
				GetNode: func(el *html.Node, p *editor.Plugin) map[string]interface{} {
					src, ok := deserialize.Attr(el, "src")
					if !ok || validation.ValidateURL(src) != nil {
						return nil
					}
					props := map[string]interface{}{"type": p.NodeType(), "url": src}
					if alt, ok := deserialize.Attr(el, "alt"); ok {
						props["alt"] = alt
					}
					return props
				},
			}},
		},
	}
}

// HorizontalRulePlugin handles void thematic breaks.
func HorizontalRulePlugin() *editor.Plugin {
	p := element(KeyHR, "HR")
	p.Options = editor.Options{"isVoid": true}
	return p
}

// ListPlugin nests the list item plugin under the two list containers.
func ListPlugin() *editor.Plugin {
	return &editor.Plugin{
		Key: "list",
		Plugins: []*editor.Plugin{
			element(KeyBulleted, "UL"),
			element(KeyNumbered, "OL"),
			element(KeyListItem, "LI"),
		},
	}
}
