// Package render renders an editor's document to HTML through the templ
// components of its plugins.
//
// An element whose plugin has a Component is rendered by that component.
// The component finds the element in its context with ElementFromContext
// and its rendered children with templ.GetChildren. Elements without a
// component, and all text leaves, use the default HTML rendering.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/editor"
)

// Element is what a plugin component receives about the node it renders.
type Element struct {
	Node   *document.Node
	Path   document.Path
	Plugin *editor.Plugin
	// Leaf is set when a mark component wraps a text leaf.
	Leaf bool
}

type elementKey struct{}

// WithElement stores el in ctx.
func WithElement(ctx context.Context, el Element) context.Context {
	return context.WithValue(ctx, elementKey{}, el)
}

// ElementFromContext returns the element being rendered.
func ElementFromContext(ctx context.Context) (Element, bool) {
	el, ok := ctx.Value(elementKey{}).(Element)
	return el, ok
}

// Document returns a component rendering e's whole document.
func Document(e *editor.Editor) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		r := &renderer{editor: e}
		return r.nodes(ctx, w, e.Children, document.Path{})
	})
}

// HTML renders e's document to a string.
func HTML(ctx context.Context, e *editor.Editor) (string, error) {
	var buf bytes.Buffer
	if err := Document(e).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type renderer struct {
	editor *editor.Editor
	// rank is the list position of the first plugin for each node type.
	rank map[string]int
}

func (r *renderer) nodes(ctx context.Context, w io.Writer, nodes []*document.Node, parent document.Path) error {
	for i, n := range nodes {
		path := parent.Child(i)
		var err error
		if n.IsText() {
			err = r.leaf(ctx, w, n, path)
		} else {
			err = r.element(ctx, w, n, path)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
	}
	return nil
}

func (r *renderer) element(ctx context.Context, w io.Writer, n *document.Node, path document.Path) error {
	children := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return r.nodes(templ.ClearChildren(ctx), w, n.Children, path)
	})

	p, ok := r.editor.PluginByType(n.Type)
	if ok && p.Component != nil {
		ctx = WithElement(ctx, Element{Node: n, Path: path, Plugin: p})
		return p.Component.Render(templ.WithChildren(ctx, children), w)
	}

	return r.defaultElement(ctx, w, n, children)
}

func (r *renderer) defaultElement(ctx context.Context, w io.Writer, n *document.Node, children templ.Component) error {
	tag, attrs := elementTag(n)
	if _, err := io.WriteString(w, openTag(tag, attrs)); err != nil {
		return err
	}
	if voidTags[tag] {
		return nil
	}
	if r.editor.IsVoid(n) {
		// Void elements carry an empty text child that is not content.
		children = templ.NopComponent
	}
	if err := children.Render(ctx, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</"+tag+">")
	return err
}

// leaf renders a text leaf wrapped in each active mark. Marks are matched
// to plugins by node type; the mark whose plugin comes first in the plugin
// list is outermost, and marks with no plugin wrap them all.
func (r *renderer) leaf(ctx context.Context, w io.Writer, n *document.Node, path document.Path) error {
	var out templ.Component = templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, textHTML(n.Text))
		return err
	})

	for _, mark := range r.activeMarks(n) {
		inner := out
		p, ok := r.editor.PluginByType(mark)
		if ok && p.Component != nil {
			el := Element{Node: n, Path: path, Plugin: p, Leaf: true}
			out = templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				ctx = WithElement(ctx, el)
				return p.Component.Render(templ.WithChildren(ctx, inner), w)
			})
			continue
		}
		tag, known := markTags[mark]
		if !known {
			continue
		}
		out = templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			if _, err := io.WriteString(w, "<"+tag+">"); err != nil {
				return err
			}
			if err := inner.Render(ctx, w); err != nil {
				return err
			}
			_, err := io.WriteString(w, "</"+tag+">")
			return err
		})
	}
	return out.Render(ctx, w)
}

// activeMarks lists the props of n set to true, innermost first.
func (r *renderer) activeMarks(n *document.Node) []string {
	var marks []string
	for k, v := range n.Props {
		if b, ok := v.(bool); ok && b {
			marks = append(marks, k)
		}
	}
	if len(marks) < 2 {
		return marks
	}

	rank := r.markRank()
	pos := func(mark string) int {
		if i, ok := rank[mark]; ok {
			return i
		}
		return -1
	}
	sort.Slice(marks, func(i, j int) bool {
		pi, pj := pos(marks[i]), pos(marks[j])
		if pi != pj {
			return pi > pj
		}
		return marks[i] > marks[j]
	})
	return marks
}

func (r *renderer) markRank() map[string]int {
	if r.rank == nil {
		r.rank = make(map[string]int, len(r.editor.PluginList))
		for i, p := range r.editor.PluginList {
			if _, ok := r.rank[p.NodeType()]; !ok {
				r.rank[p.NodeType()] = i
			}
		}
	}
	return r.rank
}

func textHTML(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = templ.EscapeString(line)
	}
	return strings.Join(lines, "<br>")
}

func openTag(tag string, attrs [][2]string) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a[0])
		b.WriteString(`="`)
		b.WriteString(templ.EscapeString(a[1]))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	return b.String()
}
