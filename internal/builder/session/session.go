// Package session implements the builder editing session: the single
// authority over the document tree, its undo/redo history and the derived
// selection state. Every public mutation runs to completion under one lock,
// records exactly one history snapshot and emits the resulting component
// list to the notifier.
package session

import (
	"errors"
	"sync"

	"sitebuilder-be/internal/builder/document"
	"sitebuilder-be/internal/builder/history"

	"github.com/google/uuid"
)

// ErrClipboardEmpty is returned by Paste when nothing has been copied.
var ErrClipboardEmpty = errors.New("session: clipboard is empty")

// Notifier receives the full component list after every successful
// structural mutation. Implemented by the publisher service, which fans the
// snapshot out to the preview relay.
type Notifier interface {
	DocumentChanged(sessionID, projectID string, components []*document.Component)
}

type Session struct {
	mu sync.Mutex

	id          string
	projectID   string
	projectName string

	tree    *document.Tree
	history *history.History

	selectedID string
	hoveredID  string
	clipboard  *document.Component

	notifier Notifier
}

func New(id string, notifier Notifier, historyLimit int) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	s := &Session{
		id:       id,
		tree:     document.NewTree(),
		history:  history.New(historyLimit),
		notifier: notifier,
	}
	s.history.Reset(nil)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}

func (s *Session) ProjectName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectName
}

// Components returns a deep copy of the current tree.
func (s *Session) Components() []*document.Component {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Snapshot()
}

// Selection returns the selected and hovered component ids.
func (s *Session) Selection() (selected, hovered string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID, s.hoveredID
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// FindComponent returns a deep copy of the component with the given id.
func (s *Session) FindComponent(id string) (*document.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, ok := s.tree.Find(id)
	if !ok {
		return nil, document.ErrNotFound
	}
	return node.Clone(), nil
}

// AdoptProject binds the session to a persisted project without touching
// the document or its history. Used after a save.
func (s *Session) AdoptProject(projectID, projectName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = projectID
	s.projectName = projectName
}

// AddComponent inserts the component (and any children it carries) under
// parentID at index, assigning a fresh id to every node. The new root
// becomes the selected component.
func (s *Session) AddComponent(c *document.Component, parentID string, index int) (*document.Component, error) {
	if c == nil {
		return nil, document.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	node := c.Clone()
	assignIDs(node)
	if node.Name == "" {
		node.Name = node.Category
	}

	if err := s.tree.Insert(node, parentID, index); err != nil {
		return nil, err
	}
	s.selectedID = node.ID
	s.commit()
	return node.Clone(), nil
}

// UpdateComponent merges the patch into the matching node.
func (s *Session) UpdateComponent(id string, patch document.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tree.Update(id, patch); err != nil {
		return err
	}
	s.commit()
	return nil
}

// DeleteComponent removes the node and its subtree. Selection and hover
// references into the removed subtree are cleared.
func (s *Session) DeleteComponent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.tree.Find(id)
	if !ok {
		return document.ErrNotFound
	}

	removed := make(map[string]struct{})
	collectIDs(node, removed)

	if err := s.tree.Remove(id); err != nil {
		return err
	}
	if _, gone := removed[s.selectedID]; gone {
		s.selectedID = ""
	}
	if _, gone := removed[s.hoveredID]; gone {
		s.hoveredID = ""
	}
	s.commit()
	return nil
}

// DuplicateComponent deep-clones the subtree with fresh ids and selects the
// clone.
func (s *Session) DuplicateComponent(id string) (*document.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone, err := s.tree.Duplicate(id, uuid.NewString)
	if err != nil {
		return nil, err
	}
	s.selectedID = clone.ID
	s.commit()
	return clone.Clone(), nil
}

// MoveComponent reparents the node, preserving its id and subtree.
func (s *Session) MoveComponent(id string, newParentID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tree.Move(id, newParentID, index); err != nil {
		return err
	}
	s.commit()
	return nil
}

// CopyComponent places a detached deep copy of the subtree on the clipboard.
// Copying is not a mutation and records no history.
func (s *Session) CopyComponent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.tree.Find(id)
	if !ok {
		return document.ErrNotFound
	}
	s.clipboard = node.Clone()
	s.clipboard.ParentID = ""
	return nil
}

// PasteComponent inserts a fresh-id copy of the clipboard under parentID and
// selects it. The clipboard survives so repeated pastes work.
func (s *Session) PasteComponent(parentID string, index int) (*document.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clipboard == nil {
		return nil, ErrClipboardEmpty
	}
	node := s.clipboard.Clone()
	assignIDs(node)

	if err := s.tree.Insert(node, parentID, index); err != nil {
		return nil, err
	}
	s.selectedID = node.ID
	s.commit()
	return node.Clone(), nil
}

// Select marks the component as selected. Unknown ids clear the selection,
// matching how the UI races ahead of confirmed state. Not undoable.
func (s *Session) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && !s.tree.Contains(id) {
		s.selectedID = ""
		return
	}
	s.selectedID = id
}

// SetHovered marks the component as hovered. Not undoable.
func (s *Session) SetHovered(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && !s.tree.Contains(id) {
		s.hoveredID = ""
		return
	}
	s.hoveredID = id
}

// Undo steps the document back one snapshot. Returns false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snapshot)
	return true
}

// Redo re-applies the most recently undone snapshot.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snapshot)
	return true
}

// LoadProject replaces the live tree wholesale, resets the history and
// clears all ephemeral session state.
func (s *Session) LoadProject(components []*document.Component, projectID, projectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tree.Load(components); err != nil {
		return err
	}
	s.history.Reset(s.tree.Snapshot())
	s.projectID = projectID
	s.projectName = projectName
	s.selectedID = ""
	s.hoveredID = ""
	s.clipboard = nil
	s.notify()
	return nil
}

// ClearProject empties the tree, resets the history and drops the project
// identity.
func (s *Session) ClearProject() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.tree.Load(nil)
	s.history.Reset(nil)
	s.projectID = ""
	s.projectName = ""
	s.selectedID = ""
	s.hoveredID = ""
	s.clipboard = nil
	s.notify()
}

// commit records one history snapshot for the mutation just applied and
// pushes the result to the notifier. Callers hold s.mu.
func (s *Session) commit() {
	s.history.Record(s.tree.Snapshot())
	s.notify()
}

// restore loads a history snapshot into the live tree, pruning selection
// references that no longer resolve. Callers hold s.mu.
func (s *Session) restore(snapshot []*document.Component) {
	// Snapshots came out of this tree, so ids are known unique.
	_ = s.tree.Load(snapshot)
	if s.selectedID != "" && !s.tree.Contains(s.selectedID) {
		s.selectedID = ""
	}
	if s.hoveredID != "" && !s.tree.Contains(s.hoveredID) {
		s.hoveredID = ""
	}
	s.notify()
}

func (s *Session) notify() {
	if s.notifier == nil {
		return
	}
	s.notifier.DocumentChanged(s.id, s.projectID, s.tree.Snapshot())
}

func assignIDs(c *document.Component) {
	c.ID = uuid.NewString()
	for _, child := range c.Children {
		assignIDs(child)
	}
}

func collectIDs(c *document.Component, into map[string]struct{}) {
	into[c.ID] = struct{}{}
	for _, child := range c.Children {
		collectIDs(child, into)
	}
}
