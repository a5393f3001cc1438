package render

import (
	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/validation"
	"github.com/spf13/cast"
)

var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "ul": true, "ol": true, "li": true, "hr": true,
}

// voidTags are HTML elements without a closing tag.
var voidTags = map[string]bool{"img": true, "hr": true, "br": true}

// markTags maps mark props to the HTML element wrapping marked text.
var markTags = map[string]string{
	"bold":          "strong",
	"italic":        "em",
	"underline":     "u",
	"strikethrough": "s",
	"code":          "code",
}

// elementTag picks the HTML tag and attributes for an element rendered
// without a plugin component.
func elementTag(n *document.Node) (string, [][2]string) {
	prop := func(key string) string {
		v, _ := n.Prop(key)
		return cast.ToString(v)
	}

	switch {
	case blockTags[n.Type]:
		return n.Type, nil
	case n.Type == "code_block":
		if lang := prop("lang"); lang != "" {
			return "pre", [][2]string{{"class", "language-" + lang}}
		}
		return "pre", nil
	case n.Type == "a":
		var attrs [][2]string
		if url := validation.SafeURL(prop("url")); url != "" {
			attrs = append(attrs, [2]string{"href", url})
		}
		if target := prop("target"); target != "" {
			attrs = append(attrs, [2]string{"target", target})
		}
		return "a", attrs
	case n.Type == "img":
		return "img", [][2]string{{"src", validation.SafeURL(prop("url"))}, {"alt", prop("alt")}}
	default:
		return "div", [][2]string{{"data-slate-type", n.Type}}
	}
}
