// Package deserialize turns external content (HTML, serialized document
// fragments, plain text) into document nodes using the deserialization
// rules of a composed editor's plugins.
package deserialize

import (
	"context"
	"fmt"
	"strings"

	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/editor"
	"github.com/conneroisu/plate/internal/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Order is the direction the plugin list is scanned in.
type Order int

const (
	// Forward scans from the first plugin to the last.
	Forward Order = iota
	// Reverse scans from the last plugin to the first, so plugins added
	// later shadow the rules of earlier ones.
	Reverse
)

// ElementOrder is the scan direction used to find the element rule for an
// HTML element. The first plugin in this order with a matching rule wins.
const ElementOrder = Reverse

// HTML deserializes an HTML fragment. Elements matched by a plugin element
// rule become elements of that plugin's type; unmatched elements are
// unwrapped into their children. Leaf rules add marks to every text leaf
// beneath the matched element. Top-level runs of text and inline elements
// are wrapped in paragraphs.
func HTML(e *editor.Editor, src string) ([]*document.Node, error) {
	if !editor.IsPluginEnabled(e, editor.KeyDeserializeHTML) {
		return nil, disabled(editor.KeyDeserializeHTML)
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, errors.WrapValidation(err, errors.CodeDeserializationFailed, "failed to parse HTML").
			WithPlugin(editor.KeyDeserializeHTML)
	}

	d := &htmlDeserializer{editor: e}
	var out []*document.Node
	for _, n := range nodes {
		out = append(out, d.node(n)...)
	}
	out = wrapLoose(e, out)

	e.Log().WithComponent("deserializer").Debug(context.Background(), "HTML deserialized",
		"bytes", len(src),
		"nodes", len(out),
	)
	return out, nil
}

type htmlDeserializer struct {
	editor *editor.Editor
}

func (d *htmlDeserializer) node(n *html.Node) []*document.Node {
	switch n.Type {
	case html.TextNode:
		text := collapseWhitespace(n.Data)
		// Whitespace between inline siblings is content; indentation and
		// top-level whitespace is not.
		if strings.TrimSpace(text) == "" && (n.Parent == nil || strings.ContainsAny(n.Data, "\n\r")) {
			return nil
		}
		return []*document.Node{document.NewText(text)}
	case html.ElementNode:
		return d.element(n)
	case html.DocumentNode:
		return d.children(n)
	default:
		return nil
	}
}

func (d *htmlDeserializer) children(n *html.Node) []*document.Node {
	var out []*document.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, d.node(c)...)
	}
	return out
}

func (d *htmlDeserializer) element(n *html.Node) []*document.Node {
	if n.DataAtom == atom.Br {
		return []*document.Node{document.NewText("\n")}
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Head:
		return nil
	}

	children := d.children(n)
	for _, marks := range d.leafMarks(n) {
		applyMarks(children, marks)
	}

	props, ok := PipeHTMLElement(d.editor, n)
	if !ok {
		return children
	}

	typ := props["type"]
	el := document.NewElement(fmt.Sprint(typ), children...)
	for k, v := range props {
		if k != "type" {
			el.SetProp(k, v)
		}
	}
	if len(el.Children) == 0 {
		el.Children = []*document.Node{document.NewText("")}
	}
	return []*document.Node{el}
}

// PipeHTMLElement finds the element rule for n, scanning the plugin list in
// ElementOrder, and returns the properties of the node it produces.
func PipeHTMLElement(e *editor.Editor, n *html.Node) (map[string]interface{}, bool) {
	var found map[string]interface{}
	scan(e.PluginList, ElementOrder, func(p *editor.Plugin) bool {
		for _, rule := range p.Handlers.DeserializeHTML {
			if rule.IsLeaf || !Matches(rule, n) {
				continue
			}
			props := elementProps(rule, n, p)
			if len(props) == 0 {
				continue
			}
			found = props
			return true
		}
		return false
	})
	return found, found != nil
}

// leafMarks returns the marks of every leaf rule matching n, in plugin
// order.
func (d *htmlDeserializer) leafMarks(n *html.Node) []map[string]interface{} {
	var out []map[string]interface{}
	scan(d.editor.PluginList, Forward, func(p *editor.Plugin) bool {
		for _, rule := range p.Handlers.DeserializeHTML {
			if !rule.IsLeaf || !Matches(rule, n) {
				continue
			}
			var marks map[string]interface{}
			if rule.GetNode != nil {
				marks = rule.GetNode(n, p)
			} else {
				marks = map[string]interface{}{p.NodeType(): true}
			}
			if len(marks) > 0 {
				out = append(out, marks)
			}
		}
		return false
	})
	return out
}

func elementProps(rule editor.HTMLRule, n *html.Node, p *editor.Plugin) map[string]interface{} {
	if rule.GetNode == nil {
		return map[string]interface{}{"type": p.NodeType()}
	}
	props := rule.GetNode(n, p)
	if props == nil {
		return nil
	}
	if _, ok := props["type"]; !ok {
		props["type"] = p.NodeType()
	}
	return props
}

// scan visits plugins in the given order until fn returns true.
func scan(plugins []*editor.Plugin, order Order, fn func(*editor.Plugin) bool) {
	if order == Reverse {
		for i := len(plugins) - 1; i >= 0; i-- {
			if fn(plugins[i]) {
				return
			}
		}
		return
	}
	for _, p := range plugins {
		if fn(p) {
			return
		}
	}
}

// Matches reports whether rule applies to the element n.
func Matches(rule editor.HTMLRule, n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	name := strings.ToUpper(n.Data)
	nameOK := false
	for _, want := range rule.NodeNames {
		if want == "*" || strings.EqualFold(want, name) {
			nameOK = true
			break
		}
	}
	if !nameOK && len(rule.NodeNames) > 0 {
		return false
	}
	if len(rule.NodeNames) == 0 && len(rule.Attributes) == 0 && rule.Query == nil {
		return false
	}
	for key, want := range rule.Attributes {
		got, ok := Attr(n, key)
		if !ok {
			return false
		}
		if want != "" && want != "*" && got != want {
			return false
		}
	}
	return rule.Query == nil || rule.Query(n)
}

// Attr returns the value of an attribute of n.
func Attr(n *html.Node, name string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// HasClass reports whether n carries the CSS class.
func HasClass(n *html.Node, class string) bool {
	if v, ok := Attr(n, "class"); ok {
		for _, c := range strings.Fields(v) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// TextContent returns the concatenated text beneath n.
func TextContent(n *html.Node) string {
	var text strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return text.String()
}

func applyMarks(nodes []*document.Node, marks map[string]interface{}) {
	for _, n := range nodes {
		if n.IsText() {
			for k, v := range marks {
				n.SetProp(k, v)
			}
			continue
		}
		applyMarks(n.Children, marks)
	}
}

// wrapLoose wraps consecutive top-level text and inline nodes in
// paragraphs.
func wrapLoose(e *editor.Editor, nodes []*document.Node) []*document.Node {
	out := make([]*document.Node, 0, len(nodes))
	var run []*document.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, document.NewElement(document.DefaultParagraphType, run...))
		run = nil
	}
	for _, n := range nodes {
		if n.IsText() || e.IsInline(n) {
			run = append(run, n)
			continue
		}
		flush()
		out = append(out, n)
	}
	flush()
	return out
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

func disabled(key string) error {
	return errors.NewConfigError(errors.CodePluginDisabled,
		fmt.Sprintf("plugin %q is not enabled", key)).WithPlugin(key)
}
