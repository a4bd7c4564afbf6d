package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, children ...*Component) *Component {
	return &Component{
		ID:       id,
		Name:     id,
		Type:     TypeUI,
		Category: "button",
		Children: children,
	}
}

// buildTree loads: root1(child1(grand1), child2), root2
func buildTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree()
	require.NoError(t, tree.Load([]*Component{
		node("root1", node("child1", node("grand1")), node("child2")),
		node("root2"),
	}))
	return tree
}

func TestTreeLoad(t *testing.T) {
	tree := buildTree(t)

	assert.Equal(t, 5, tree.Len())
	for _, id := range []string{"root1", "child1", "grand1", "child2", "root2"} {
		assert.True(t, tree.Contains(id), "missing %s", id)
	}

	// ParentID back-references are rebuilt from structure, not trusted input.
	grand, ok := tree.Find("grand1")
	require.True(t, ok)
	assert.Equal(t, "child1", grand.ParentID)
	root, ok := tree.Find("root1")
	require.True(t, ok)
	assert.Equal(t, "", root.ParentID)
}

func TestTreeLoadRejectsDuplicateIDs(t *testing.T) {
	tree := NewTree()
	err := tree.Load([]*Component{node("a"), node("a")})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestTreeLoadIsDeepCopy(t *testing.T) {
	src := []*Component{node("a")}
	tree := NewTree()
	require.NoError(t, tree.Load(src))

	src[0].Name = "mutated"
	got, ok := tree.Find("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
}

func TestTreeSnapshotIsolation(t *testing.T) {
	tree := buildTree(t)

	snap := tree.Snapshot()
	snap[0].Name = "mutated"
	snap[0].Children[0].Props = map[string]interface{}{"text": "mutated"}

	got, ok := tree.Find("root1")
	require.True(t, ok)
	assert.Equal(t, "root1", got.Name)
	child, ok := tree.Find("child1")
	require.True(t, ok)
	assert.Nil(t, child.Props)
}

func TestTreeInsert(t *testing.T) {
	tests := []struct {
		name      string
		node      *Component
		parentID  string
		index     int
		wantErr   error
		wantOrder []string // sibling ids under parent after insert
	}{
		{
			name:      "append at root",
			node:      node("new"),
			parentID:  "",
			index:     -1,
			wantOrder: []string{"root1", "root2", "new"},
		},
		{
			name:      "insert at front",
			node:      node("new"),
			parentID:  "",
			index:     0,
			wantOrder: []string{"new", "root1", "root2"},
		},
		{
			name:      "index past end appends",
			node:      node("new"),
			parentID:  "",
			index:     99,
			wantOrder: []string{"root1", "root2", "new"},
		},
		{
			name:      "under existing parent",
			node:      node("new"),
			parentID:  "child1",
			index:     0,
			wantOrder: []string{"new", "grand1"},
		},
		{
			name:     "unknown parent",
			node:     node("new"),
			parentID: "ghost",
			index:    0,
			wantErr:  ErrParentNotFound,
		},
		{
			name:     "duplicate id anywhere in subtree",
			node:     node("new", node("grand1")),
			parentID: "",
			index:    -1,
			wantErr:  ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildTree(t)
			before := tree.Len()

			err := tree.Insert(tt.node, tt.parentID, tt.index)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, tree.Len(), "failed insert must not change the tree")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrder, siblingIDs(tree, tt.parentID))
			got, ok := tree.Find("new")
			require.True(t, ok)
			assert.Equal(t, tt.parentID, got.ParentID)
		})
	}
}

func TestTreeRemoveSubtree(t *testing.T) {
	tree := buildTree(t)

	require.NoError(t, tree.Remove("child1"))

	assert.False(t, tree.Contains("child1"))
	assert.False(t, tree.Contains("grand1"), "descendants must go with the node")
	assert.True(t, tree.Contains("child2"))
	assert.Equal(t, 3, tree.Len())

	assert.ErrorIs(t, tree.Remove("ghost"), ErrNotFound)
}

func TestTreeUpdateMergesMaps(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Load([]*Component{{
		ID:     "a",
		Name:   "a",
		Props:  map[string]interface{}{"text": "hello", "href": "/"},
		Styles: map[string]interface{}{"color": "red"},
	}}))

	name := "renamed"
	locked := true
	require.NoError(t, tree.Update("a", Patch{
		Name:     &name,
		IsLocked: &locked,
		Props:    map[string]interface{}{"text": "bye"},
		Styles:   map[string]interface{}{"margin": "8px"},
	}))

	got, _ := tree.Find("a")
	assert.Equal(t, "renamed", got.Name)
	assert.True(t, got.IsLocked)
	// Untouched keys survive a partial patch.
	assert.Equal(t, "bye", got.Props["text"])
	assert.Equal(t, "/", got.Props["href"])
	assert.Equal(t, "red", got.Styles["color"])
	assert.Equal(t, "8px", got.Styles["margin"])

	assert.ErrorIs(t, tree.Update("ghost", Patch{}), ErrNotFound)
}

func TestTreeMove(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		newParentID string
		index       int
		wantErr     error
	}{
		{name: "reparent to sibling root", id: "child1", newParentID: "root2", index: 0},
		{name: "promote to root level", id: "grand1", newParentID: "", index: 0},
		{name: "reorder within parent", id: "child2", newParentID: "root1", index: 0},
		{name: "unknown node", id: "ghost", newParentID: "", index: 0, wantErr: ErrNotFound},
		{name: "unknown parent", id: "child1", newParentID: "ghost", index: 0, wantErr: ErrParentNotFound},
		{name: "under itself", id: "root1", newParentID: "root1", index: 0, wantErr: ErrWouldCycle},
		{name: "under own descendant", id: "root1", newParentID: "grand1", index: 0, wantErr: ErrWouldCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildTree(t)
			beforeLen := tree.Len()
			before := siblingIDs(tree, "")

			err := tree.Move(tt.id, tt.newParentID, tt.index)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, siblingIDs(tree, ""), "rejected move must leave the tree untouched")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, beforeLen, tree.Len(), "move never changes node count")
			got, ok := tree.Find(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.newParentID, got.ParentID)
			assert.Equal(t, tt.id, siblingIDs(tree, tt.newParentID)[tt.index])
		})
	}
}

func TestTreeMoveKeepsSubtree(t *testing.T) {
	tree := buildTree(t)

	require.NoError(t, tree.Move("child1", "root2", 0))

	// grand1 travels with child1 and its back-reference is unchanged.
	grand, ok := tree.Find("grand1")
	require.True(t, ok)
	assert.Equal(t, "child1", grand.ParentID)
}

func TestTreeDuplicate(t *testing.T) {
	tree := buildTree(t)
	seq := 0
	newID := func() string {
		seq++
		return fmt.Sprintf("copy-%d", seq)
	}

	clone, err := tree.Duplicate("child1", newID)
	require.NoError(t, err)

	assert.Equal(t, "child1 Copy", clone.Name)
	assert.NotEqual(t, "child1", clone.ID)
	require.Len(t, clone.Children, 1)
	assert.NotEqual(t, "grand1", clone.Children[0].ID, "every node in the clone gets a fresh id")

	// Inserted immediately after the original.
	assert.Equal(t, []string{"child1", clone.ID, "child2"}, siblingIDs(tree, "root1"))
	assert.Equal(t, 7, tree.Len())

	_, err = tree.Duplicate("ghost", newID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountNodes(t *testing.T) {
	assert.Equal(t, 0, CountNodes(nil))
	assert.Equal(t, 4, CountNodes([]*Component{
		node("a", node("b", node("c"))),
		node("d"),
	}))
}

func siblingIDs(t *Tree, parentID string) []string {
	siblings, ok := t.siblings(parentID)
	if !ok {
		return nil
	}
	ids := make([]string, len(*siblings))
	for i, s := range *siblings {
		ids[i] = s.ID
	}
	return ids
}
