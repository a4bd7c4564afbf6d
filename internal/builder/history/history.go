// Package history implements the bounded undo/redo stack backing the
// builder document. Snapshots are deep copies, one per logical mutation.
package history

import "sitebuilder-be/internal/builder/document"

// DefaultLimit is how many past snapshots are retained before FIFO eviction.
const DefaultLimit = 50

type History struct {
	past    [][]*document.Component
	present []*document.Component
	future  [][]*document.Component
	limit   int
}

// New creates a history with the given bound on past snapshots.
// limit <= 0 falls back to DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{
		past:    make([][]*document.Component, 0, limit),
		present: make([]*document.Component, 0),
		future:  make([][]*document.Component, 0),
		limit:   limit,
	}
}

// Record pushes the current present onto the past, makes the given tree the
// new present and discards any redo history. The oldest snapshots are evicted
// once the bound is exceeded.
func (h *History) Record(tree []*document.Component) {
	h.past = append(h.past, h.present)
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.present = document.CloneList(tree)
	h.future = h.future[:0]
}

// Undo steps back one snapshot. Returns the restored tree (deep copy) and
// true, or nil and false when there is nothing to undo.
func (h *History) Undo() ([]*document.Component, bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	h.future = append([][]*document.Component{h.present}, h.future...)
	h.present = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return document.CloneList(h.present), true
}

// Redo re-applies the most recently undone snapshot. Returns the restored
// tree (deep copy) and true, or nil and false when there is nothing to redo.
func (h *History) Redo() ([]*document.Component, bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	h.past = append(h.past, h.present)
	h.present = h.future[0]
	h.future = h.future[1:]
	return document.CloneList(h.present), true
}

// Reset clears all three stores and makes initial the sole present snapshot.
// Used on project load and clear.
func (h *History) Reset(initial []*document.Component) {
	h.past = h.past[:0]
	h.future = h.future[:0]
	h.present = document.CloneList(initial)
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth returns the number of retained past snapshots.
func (h *History) Depth() int { return len(h.past) }

// Present returns a deep copy of the current snapshot.
func (h *History) Present() []*document.Component {
	return document.CloneList(h.present)
}
