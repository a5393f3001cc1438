package editor

import (
	"context"
	"fmt"

	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/errors"
)

// normalizeIterationFactor bounds the normalization loop at this many fixes
// per node in the document when it started.
const normalizeIterationFactor = 42

// NormalizeEditor runs normalization over the whole document until no rule
// applies. Each pass walks the root and then every node in document order;
// for each entry the plugin rules are tried in plugin order, then the
// editor defaults, and the first rule that changes the document ends the
// pass. Exceeding the iteration ceiling means the rules do not converge and
// yields a normalization error.
func (e *Editor) NormalizeEditor() error {
	ceiling := e.MaxNormalizeIterations
	if ceiling <= 0 {
		ceiling = normalizeIterationFactor * (document.Count(e.Children) + 1)
	}

	for fixes := 0; ; fixes++ {
		applied, err := e.normalizePass()
		if err != nil {
			return err
		}
		if !applied {
			if fixes > 0 {
				e.logger().WithComponent("normalizer").Debug(context.Background(),
					"Document normalized", "fixes", fixes)
			}
			return nil
		}
		// The ceiling counts fixes; a pass that finds nothing is always run.
		if fixes+1 > ceiling {
			return errors.NewNormalizationError(errors.CodeNormalizationOverrun,
				fmt.Sprintf("normalization did not converge after %d iterations", ceiling)).
				WithContext("editor_id", e.ID)
		}
	}
}

func (e *Editor) normalizePass() (bool, error) {
	children := e.Children
	if children == nil {
		children = []*document.Node{}
	}
	entries := make([]document.Entry, 0, document.Count(children)+1)
	entries = append(entries, document.Entry{Node: &document.Node{Children: children}, Path: document.Path{}})
	entries = append(entries, document.Entries(children)...)

	for _, entry := range entries {
		applied, err := e.normalizeNode(entry)
		if err != nil {
			return false, err
		}
		if applied {
			return true, nil
		}
	}
	return false, nil
}

func (e *Editor) normalizeNode(entry document.Entry) (bool, error) {
	for _, h := range e.handlers.normalize {
		applied, err := h.fn(e, h.plugin, entry)
		if err != nil {
			return false, errors.NewNormalizationError(errors.CodeNormalizeRuleFailed,
				fmt.Sprintf("normalize rule failed at %s", entry.Path)).
				WithPlugin(h.plugin.Key).WithCause(err)
		}
		if applied {
			return true, nil
		}
	}
	return e.defaultNormalize(entry)
}

// defaultNormalize keeps the document structurally valid: the document has
// at least one block and every element has at least one child.
func (e *Editor) defaultNormalize(entry document.Entry) (bool, error) {
	if entry.IsRoot() {
		if len(e.Children) > 0 {
			return false, nil
		}
		return true, e.InsertNodes(document.Path{0}, e.API.ChildrenFactory()...)
	}

	if entry.Node.IsElement() && len(entry.Node.Children) == 0 {
		return true, e.InsertNodes(entry.Path.Child(0), document.NewText(""))
	}
	return false, nil
}
