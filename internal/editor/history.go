package editor

import (
	"time"

	"github.com/conneroisu/plate/internal/document"
)

// Batch is a group of operations recorded as one undo step.
type Batch struct {
	Operations []document.Operation
	Timestamp  time.Time
}

// History is the editor's history handle. It records applied operations in
// batches; undo and redo are left to the history plugin's consumers.
type History struct {
	Undos []Batch
	Redos []Batch

	grouping   bool
	saving     bool
	maxEntries int
}

// NewHistory creates a history handle holding at most maxEntries batches.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &History{saving: true, maxEntries: maxEntries}
}

// Record adds op to the current group, or as a new batch when no group is
// open. Recording clears the redo stack.
func (h *History) Record(op document.Operation) {
	if !h.saving {
		return
	}
	h.Redos = nil

	if h.grouping && len(h.Undos) > 0 {
		last := &h.Undos[len(h.Undos)-1]
		last.Operations = append(last.Operations, op)
		return
	}

	h.Undos = append(h.Undos, Batch{Operations: []document.Operation{op}, Timestamp: time.Now()})
	if len(h.Undos) > h.maxEntries {
		h.Undos = h.Undos[len(h.Undos)-h.maxEntries:]
	}
}

// BeginGroup starts collecting operations into one batch.
func (h *History) BeginGroup() {
	if h.grouping {
		return
	}
	h.grouping = true
	h.Undos = append(h.Undos, Batch{Timestamp: time.Now()})
}

// EndGroup closes the current batch. Empty batches are discarded.
func (h *History) EndGroup() {
	if !h.grouping {
		return
	}
	h.grouping = false
	if n := len(h.Undos); n > 0 && len(h.Undos[n-1].Operations) == 0 {
		h.Undos = h.Undos[:n-1]
	}
	if len(h.Undos) > h.maxEntries {
		h.Undos = h.Undos[len(h.Undos)-h.maxEntries:]
	}
}

// WithoutSaving runs fn with recording suspended.
func (h *History) WithoutSaving(fn func() error) error {
	prev := h.saving
	h.saving = false
	defer func() { h.saving = prev }()
	return fn()
}

// IsSaving reports whether operations are currently recorded.
func (h *History) IsSaving() bool {
	return h.saving
}
