// Package document provides the node tree the editor operates on.
//
// A document is an ordered list of top-level nodes. Element nodes carry a
// Type and Children; text nodes carry Text and no Children. Any other
// attributes (element attributes, text marks) live in Props. The wire shape
// matches the familiar `{type, children}` / `{text}` JSON form so values can
// be round-tripped through manifests and the CLI.
package document

import (
	"encoding/json"
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// DefaultParagraphType is the element type used by the default children
// factory and by deserializers when they need to wrap loose text.
const DefaultParagraphType = "p"

// Node is either an element or a text leaf.
type Node struct {
	Type     string
	Text     string
	Children []*Node
	Props    map[string]interface{}
}

// NewElement creates an element node.
func NewElement(typ string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Type: typ, Children: children}
}

// NewText creates a text leaf.
func NewText(text string) *Node {
	return &Node{Text: text}
}

// EmptyParagraph returns a paragraph holding one empty text leaf.
func EmptyParagraph() *Node {
	return NewElement(DefaultParagraphType, NewText(""))
}

// IsText reports whether n is a text leaf. A node without a type and
// without a children slice is a leaf; anything else is an element.
func (n *Node) IsText() bool {
	return n.Type == "" && n.Children == nil
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return !n.IsText()
}

// Prop returns a property value.
func (n *Node) Prop(key string) (interface{}, bool) {
	if n.Props == nil {
		return nil, false
	}
	v, ok := n.Props[key]
	return v, ok
}

// SetProp sets a property value.
func (n *Node) SetProp(key string, value interface{}) {
	if n.Props == nil {
		n.Props = make(map[string]interface{})
	}
	n.Props[key] = value
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Type: n.Type, Text: n.Text}
	if n.Children != nil {
		c.Children = CloneAll(n.Children)
	}
	if n.Props != nil {
		c.Props = make(map[string]interface{}, len(n.Props))
		for k, v := range n.Props {
			c.Props[k] = v
		}
	}
	return c
}

// CloneAll deep-copies a node list.
func CloneAll(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Equal reports whether a and b describe the same tree.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsText() != b.IsText() || a.Type != b.Type || a.Text != b.Text {
		return false
	}
	if len(a.Props) != len(b.Props) || (len(a.Props) > 0 && !reflect.DeepEqual(a.Props, b.Props)) {
		return false
	}
	return EqualAll(a.Children, b.Children)
}

// EqualAll compares two node lists element-wise.
func EqualAll(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// String returns the concatenated text content of n.
func String(n *Node) string {
	if n.IsText() {
		return n.Text
	}
	var s string
	for _, c := range n.Children {
		s += String(c)
	}
	return s
}

// Length returns the number of characters across all text leaves.
func Length(nodes []*Node) int {
	total := 0
	for _, n := range nodes {
		if n.IsText() {
			total += utf8.RuneCountInString(n.Text)
			continue
		}
		total += Length(n.Children)
	}
	return total
}

// MarshalJSON encodes n in the `{type, children}` / `{text}` shape.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToMap())
}

// UnmarshalJSON decodes n from the `{type, children}` / `{text}` shape.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := FromMap(raw)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

// ToMap converts n to plain maps and slices.
func (n *Node) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(n.Props)+2)
	for k, v := range n.Props {
		m[k] = v
	}
	if n.IsText() {
		m["text"] = n.Text
		return m
	}
	if n.Type != "" {
		m["type"] = n.Type
	}
	children := make([]interface{}, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.ToMap()
	}
	m["children"] = children
	return m
}

// FromValue decodes a document from generic decoded data, as produced by
// encoding/json, yaml.v3 or viper: a slice of maps.
func FromValue(v interface{}) ([]*Node, error) {
	if v == nil {
		return nil, nil
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("document value must be a list of nodes: %w", err)
	}
	nodes := make([]*Node, 0, len(items))
	for i, item := range items {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		n, err := FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// FromMap decodes a single node.
func FromMap(m map[string]interface{}) (*Node, error) {
	n := &Node{}
	if text, ok := m["text"]; ok {
		s, err := cast.ToStringE(text)
		if err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
		n.Text = s
		for k, v := range m {
			if k != "text" {
				n.SetProp(k, v)
			}
		}
		return n, nil
	}

	_, hasType := m["type"]
	_, hasChildren := m["children"]
	if !hasType && !hasChildren {
		return nil, fmt.Errorf("node needs either text or children")
	}

	typ, err := cast.ToStringE(m["type"])
	if err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}
	n.Type = typ

	children, err := FromValue(m["children"])
	if err != nil {
		return nil, fmt.Errorf("children of %q: %w", typ, err)
	}
	if children == nil {
		children = []*Node{}
	}
	n.Children = children

	for k, v := range m {
		if k != "type" && k != "children" {
			n.SetProp(k, v)
		}
	}
	return n, nil
}
