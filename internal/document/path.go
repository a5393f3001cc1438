package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a node by child indexes from the document root. The empty
// path addresses the document itself.
type Path []int

// Clone copies p.
func (p Path) Clone() Path {
	if p == nil {
		return Path{}
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Child returns the path of the i-th child of p.
func (p Path) Child(i int) Path {
	c := make(Path, len(p)+1)
	copy(c, p)
	c[len(p)] = i
	return c
}

// Parent returns the parent path. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1].Clone()
}

// Equal reports whether p and other address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders p as "[0 1 2]".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Point is a position inside a text leaf.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

// Equal compares two points.
func (p Point) Equal(other Point) bool {
	return p.Offset == other.Offset && p.Path.Equal(other.Path)
}

func (p Point) String() string {
	return fmt.Sprintf("%s:%d", p.Path, p.Offset)
}

// Range is a selection between two points.
type Range struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Collapse returns a zero-width range at pt.
func Collapse(pt Point) *Range {
	return &Range{Anchor: pt, Focus: Point{Path: pt.Path.Clone(), Offset: pt.Offset}}
}

// IsCollapsed reports whether anchor and focus coincide.
func (r Range) IsCollapsed() bool {
	return r.Anchor.Equal(r.Focus)
}

// Entry pairs a node with its path.
type Entry struct {
	Node *Node
	Path Path
}

// IsRoot reports whether the entry addresses the document itself.
func (e Entry) IsRoot() bool {
	return len(e.Path) == 0
}
