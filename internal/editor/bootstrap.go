package editor

import (
	"fmt"

	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/errors"
	"github.com/google/uuid"
)

// AutoSelect picks a document boundary to place the initial cursor at.
type AutoSelect string

const (
	AutoSelectNone  AutoSelect = ""
	AutoSelectStart AutoSelect = "start"
	AutoSelectEnd   AutoSelect = "end"
)

// ParseAutoSelect accepts "start", "end", and "" or "false" for none.
func ParseAutoSelect(s string) (AutoSelect, error) {
	switch s {
	case "", "false", "none":
		return AutoSelectNone, nil
	case "start":
		return AutoSelectStart, nil
	case "end":
		return AutoSelectEnd, nil
	default:
		return AutoSelectNone, errors.NewValidationError(errors.CodeInvalidManifest,
			fmt.Sprintf("autoSelect must be start, end or false, got %q", s))
	}
}

// SlateOptions configures WithSlate.
type SlateOptions struct {
	// ID labels the editor when set.
	ID string
	// Value is the initial document. nil means "not given" and uses the
	// editor's children factory; an empty non-nil slice is kept as is. The
	// nodes are stored as given unless ShouldNormalizeEditor is set, in which
	// case the editor works on a copy.
	Value []*document.Node
	// Selection is the initial selection.
	Selection *document.Range
	// AutoSelect places a collapsed selection at a boundary when no
	// Selection is given.
	AutoSelect AutoSelect
	// ShouldNormalizeEditor runs a full normalization after seeding.
	ShouldNormalizeEditor bool
}

// WithSlate seeds e's document state. Without ShouldNormalizeEditor the
// value is stored verbatim. The editor gets a key and a history handle if it
// has none yet.
func WithSlate(e *Editor, opts SlateOptions) (*Editor, error) {
	if e == nil {
		e = New()
	}
	if opts.ID != "" {
		e.ID = opts.ID
	}
	if e.Key == "" {
		e.Key = uuid.NewString()
	}
	if e.History == nil {
		e.History = NewHistory(0)
	}
	if e.API.ChildrenFactory == nil {
		e.API.ChildrenFactory = New().API.ChildrenFactory
	}

	value := opts.Value
	switch {
	case value == nil:
		value = e.API.ChildrenFactory()
	case opts.ShouldNormalizeEditor:
		// Normalization edits nodes in place.
		value = document.CloneAll(value)
	}
	e.Children = value

	if opts.Selection != nil {
		e.Selection = opts.Selection
	} else {
		e.Selection = autoSelection(e.Children, opts.AutoSelect)
	}

	if opts.ShouldNormalizeEditor {
		if err := e.History.WithoutSaving(e.NormalizeEditor); err != nil {
			return nil, err
		}
		if e.Selection == nil {
			e.Selection = autoSelection(e.Children, opts.AutoSelect)
		}
	}

	return e, nil
}

func autoSelection(nodes []*document.Node, mode AutoSelect) *document.Range {
	var (
		pt document.Point
		ok bool
	)
	switch mode {
	case AutoSelectStart:
		pt, ok = document.Start(nodes)
	case AutoSelectEnd:
		pt, ok = document.End(nodes)
	default:
		return nil
	}
	if !ok {
		return nil
	}
	return document.Collapse(pt)
}
