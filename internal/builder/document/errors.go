package document

import "errors"

var (
	// ErrNotFound is returned when an operation references an id that is
	// not present in the tree. Callers treat this as recoverable.
	ErrNotFound = errors.New("document: component not found")

	// ErrParentNotFound is returned by Insert/Move when the target parent
	// does not resolve to an existing node.
	ErrParentNotFound = errors.New("document: parent component not found")

	// ErrDuplicateID is returned when inserting a subtree whose ids collide
	// with nodes already in the tree.
	ErrDuplicateID = errors.New("document: duplicate component id")

	// ErrWouldCycle is returned when a move would place a node underneath
	// one of its own descendants.
	ErrWouldCycle = errors.New("document: move would create a cycle")
)
