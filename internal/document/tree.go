package document

import (
	"fmt"
	"unicode/utf8"

	"github.com/conneroisu/plate/internal/errors"
)

// Get returns the node at path. The empty path has no node of its own.
func Get(nodes []*Node, path Path) (*Node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	children := nodes
	var n *Node
	for _, idx := range path {
		if idx < 0 || idx >= len(children) {
			return nil, false
		}
		n = children[idx]
		children = n.Children
	}
	return n, true
}

// Walk visits every node in pre-order. Returning false from fn skips the
// node's descendants.
func Walk(nodes []*Node, fn func(Entry) bool) {
	walk(nodes, Path{}, fn)
}

func walk(nodes []*Node, parent Path, fn func(Entry) bool) {
	for i, n := range nodes {
		p := parent.Child(i)
		if fn(Entry{Node: n, Path: p}) && n.IsElement() {
			walk(n.Children, p, fn)
		}
	}
}

// Entries lists every node in pre-order.
func Entries(nodes []*Node) []Entry {
	var out []Entry
	Walk(nodes, func(e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Count returns the number of nodes in the tree.
func Count(nodes []*Node) int {
	count := 0
	Walk(nodes, func(Entry) bool {
		count++
		return true
	})
	return count
}

// Insert places nodes at path, shifting later siblings. Top-level inserts
// return a new slice; nested inserts modify the parent element in place.
func Insert(nodes []*Node, at Path, inserted ...*Node) ([]*Node, error) {
	if len(at) == 0 {
		return nodes, invalidPath("insert", at)
	}
	index := at[len(at)-1]
	if len(at) == 1 {
		if index < 0 || index > len(nodes) {
			return nodes, invalidPath("insert", at)
		}
		return splice(nodes, index, 0, inserted...), nil
	}

	parent, ok := Get(nodes, at.Parent())
	if !ok || parent.IsText() || index < 0 || index > len(parent.Children) {
		return nodes, invalidPath("insert", at)
	}
	parent.Children = splice(parent.Children, index, 0, inserted...)
	return nodes, nil
}

// Remove deletes the node at path and returns it.
func Remove(nodes []*Node, at Path) ([]*Node, *Node, error) {
	if len(at) == 0 {
		return nodes, nil, invalidPath("remove", at)
	}
	index := at[len(at)-1]
	if len(at) == 1 {
		if index < 0 || index >= len(nodes) {
			return nodes, nil, invalidPath("remove", at)
		}
		removed := nodes[index]
		return splice(nodes, index, 1), removed, nil
	}

	parent, ok := Get(nodes, at.Parent())
	if !ok || parent.IsText() || index < 0 || index >= len(parent.Children) {
		return nodes, nil, invalidPath("remove", at)
	}
	removed := parent.Children[index]
	parent.Children = splice(parent.Children, index, 1)
	return nodes, removed, nil
}

func splice(nodes []*Node, index, deleteCount int, inserted ...*Node) []*Node {
	out := make([]*Node, 0, len(nodes)-deleteCount+len(inserted))
	out = append(out, nodes[:index]...)
	out = append(out, inserted...)
	out = append(out, nodes[index+deleteCount:]...)
	return out
}

func invalidPath(op string, at Path) error {
	return errors.NewValidationError(errors.CodeInvalidPath,
		fmt.Sprintf("cannot %s at path %s", op, at)).WithContext("path", at.Clone())
}

// Start returns the first addressable point of the document: offset 0 of
// the first text leaf in document order.
func Start(nodes []*Node) (Point, bool) {
	var pt Point
	found := false
	Walk(nodes, func(e Entry) bool {
		if found {
			return false
		}
		if e.Node.IsText() {
			pt = Point{Path: e.Path, Offset: 0}
			found = true
			return false
		}
		return true
	})
	return pt, found
}

// End returns the last addressable point of the document: the end of the
// last text leaf in document order.
func End(nodes []*Node) (Point, bool) {
	var pt Point
	found := false
	Walk(nodes, func(e Entry) bool {
		if e.Node.IsText() {
			pt = Point{Path: e.Path, Offset: utf8.RuneCountInString(e.Node.Text)}
			found = true
		}
		return true
	})
	return pt, found
}
