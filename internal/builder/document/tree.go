package document

// Tree holds the ordered, hierarchical collection of placed components.
// Ownership flows through Children slices; an arena index keyed by id plus a
// child->parent map keeps lookups, moves and cycle checks cheap instead of
// re-walking the whole forest on every operation.
type Tree struct {
	roots  []*Component
	index  map[string]*Component
	parent map[string]string // child id -> owning id, "" for root level
}

func NewTree() *Tree {
	return &Tree{
		roots:  make([]*Component, 0),
		index:  make(map[string]*Component),
		parent: make(map[string]string),
	}
}

// Load replaces the whole tree with a deep copy of the given forest and
// rebuilds the index. The incoming ParentID fields are overwritten from the
// actual structure so the back-references are always consistent.
func (t *Tree) Load(roots []*Component) error {
	copied := CloneList(roots)
	index := make(map[string]*Component)
	parent := make(map[string]string)

	var register func(c *Component, parentID string) error
	register = func(c *Component, parentID string) error {
		if _, exists := index[c.ID]; exists {
			return ErrDuplicateID
		}
		index[c.ID] = c
		parent[c.ID] = parentID
		c.ParentID = parentID
		for _, child := range c.Children {
			if err := register(child, c.ID); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range copied {
		if err := register(root, ""); err != nil {
			return err
		}
	}

	t.roots = copied
	t.index = index
	t.parent = parent
	return nil
}

// Find returns the component with the given id.
func (t *Tree) Find(id string) (*Component, bool) {
	c, ok := t.index[id]
	return c, ok
}

// Contains reports whether an id is present anywhere in the tree.
func (t *Tree) Contains(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Len returns the total number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.index)
}

// Snapshot returns a deep copy of the current forest, safe to hand out.
func (t *Tree) Snapshot() []*Component {
	return CloneList(t.roots)
}

// Insert places node (with its subtree) under parentID, or at root level when
// parentID is empty. index < 0 or past the end appends; otherwise later
// siblings shift right. The subtree's ids must not collide with the tree.
func (t *Tree) Insert(node *Component, parentID string, index int) error {
	if node == nil {
		return ErrNotFound
	}

	collision := false
	node.walk(func(c *Component) {
		if _, exists := t.index[c.ID]; exists {
			collision = true
		}
	})
	if collision {
		return ErrDuplicateID
	}

	siblings, ok := t.siblings(parentID)
	if !ok {
		return ErrParentNotFound
	}

	*siblings = insertAt(*siblings, node, index)
	t.register(node, parentID)
	return nil
}

// Remove deletes the node and its entire subtree.
func (t *Tree) Remove(id string) error {
	node, err := t.detach(id)
	if err != nil {
		return err
	}
	node.walk(func(c *Component) {
		delete(t.index, c.ID)
		delete(t.parent, c.ID)
	})
	return nil
}

// Patch carries the updatable fields of a component. Nil pointers and nil
// maps leave the corresponding field untouched; Props and Styles are merged
// key by key into the existing maps, never replaced wholesale.
type Patch struct {
	Name     *string
	Props    map[string]interface{}
	Styles   map[string]interface{}
	IsLocked *bool
	IsHidden *bool
}

// Update shallow-merges the patch into the matching node.
func (t *Tree) Update(id string, patch Patch) error {
	node, ok := t.index[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Name != nil {
		node.Name = *patch.Name
	}
	if patch.IsLocked != nil {
		node.IsLocked = *patch.IsLocked
	}
	if patch.IsHidden != nil {
		node.IsHidden = *patch.IsHidden
	}
	if len(patch.Props) > 0 {
		if node.Props == nil {
			node.Props = make(map[string]interface{}, len(patch.Props))
		}
		for k, v := range patch.Props {
			node.Props[k] = v
		}
	}
	if len(patch.Styles) > 0 {
		if node.Styles == nil {
			node.Styles = make(map[string]interface{}, len(patch.Styles))
		}
		for k, v := range patch.Styles {
			node.Styles[k] = v
		}
	}
	return nil
}

// Move detaches the node and re-inserts it under newParentID at index,
// preserving its id and subtree. Moving a node underneath itself or one of
// its own descendants is rejected before anything is touched.
func (t *Tree) Move(id string, newParentID string, index int) error {
	if _, ok := t.index[id]; !ok {
		return ErrNotFound
	}
	if newParentID != "" {
		if _, ok := t.index[newParentID]; !ok {
			return ErrParentNotFound
		}
		if newParentID == id || t.isDescendantOf(newParentID, id) {
			return ErrWouldCycle
		}
	}

	node, err := t.detach(id)
	if err != nil {
		return err
	}
	// Parent is known to exist, so this cannot fail.
	siblings, _ := t.siblings(newParentID)
	*siblings = insertAt(*siblings, node, index)
	node.ParentID = newParentID
	t.parent[id] = newParentID
	return nil
}

// Duplicate deep-clones the subtree rooted at id, assigning a fresh id from
// newID to every cloned node, and inserts the clone immediately after the
// original among its siblings. The clone's root name gets a " Copy" suffix.
func (t *Tree) Duplicate(id string, newID func() string) (*Component, error) {
	node, ok := t.index[id]
	if !ok {
		return nil, ErrNotFound
	}

	clone := node.Clone()
	clone.walk(func(c *Component) { c.ID = newID() })
	clone.Name = clone.Name + " Copy"

	parentID := t.parent[id]
	siblings, _ := t.siblings(parentID)
	pos := len(*siblings)
	for i, s := range *siblings {
		if s.ID == id {
			pos = i + 1
			break
		}
	}
	if err := t.Insert(clone, parentID, pos); err != nil {
		return nil, err
	}
	return clone, nil
}

// siblings returns the slice holding the children of parentID (the root
// slice for ""), or ok=false when the parent does not exist.
func (t *Tree) siblings(parentID string) (*[]*Component, bool) {
	if parentID == "" {
		return &t.roots, true
	}
	parent, ok := t.index[parentID]
	if !ok {
		return nil, false
	}
	if parent.Children == nil {
		parent.Children = make([]*Component, 0)
	}
	return &parent.Children, true
}

// detach removes the node from its sibling slice without touching the index.
func (t *Tree) detach(id string) (*Component, error) {
	node, ok := t.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	siblings, ok := t.siblings(t.parent[id])
	if !ok {
		return nil, ErrNotFound
	}
	for i, s := range *siblings {
		if s.ID == id {
			*siblings = append((*siblings)[:i], (*siblings)[i+1:]...)
			return node, nil
		}
	}
	return nil, ErrNotFound
}

// register indexes node and its whole subtree, repairing ParentID fields.
func (t *Tree) register(node *Component, parentID string) {
	node.ParentID = parentID
	t.index[node.ID] = node
	t.parent[node.ID] = parentID
	for _, child := range node.Children {
		t.register(child, node.ID)
	}
}

// isDescendantOf reports whether id sits anywhere below ancestorID,
// following the parent index upward.
func (t *Tree) isDescendantOf(id string, ancestorID string) bool {
	cur := t.parent[id]
	for cur != "" {
		if cur == ancestorID {
			return true
		}
		cur = t.parent[cur]
	}
	return false
}

func insertAt(siblings []*Component, node *Component, index int) []*Component {
	if index < 0 || index >= len(siblings) {
		return append(siblings, node)
	}
	siblings = append(siblings, nil)
	copy(siblings[index+1:], siblings[index:])
	siblings[index] = node
	return siblings
}
