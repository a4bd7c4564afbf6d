package history

import (
	"fmt"
	"testing"

	"sitebuilder-be/internal/builder/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(ids ...string) []*document.Component {
	out := make([]*document.Component, len(ids))
	for i, id := range ids {
		out[i] = &document.Component{ID: id, Name: id}
	}
	return out
}

func rootIDs(components []*document.Component) []string {
	ids := make([]string, len(components))
	for i, c := range components {
		ids[i] = c.ID
	}
	return ids
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New(0)
	h.Record(snapshot("a"))
	h.Record(snapshot("a", "b"))

	restored, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, rootIDs(restored))

	restored, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, rootIDs(restored))
	assert.Equal(t, []string{"a", "b"}, rootIDs(h.Present()))
}

func TestUndoRedoAtBoundaries(t *testing.T) {
	h := New(0)

	_, ok := h.Undo()
	assert.False(t, ok, "empty history has nothing to undo")
	_, ok = h.Redo()
	assert.False(t, ok, "empty history has nothing to redo")

	h.Record(snapshot("a"))
	_, ok = h.Redo()
	assert.False(t, ok, "recording leaves nothing to redo")
}

func TestRecordClearsFuture(t *testing.T) {
	h := New(0)
	h.Record(snapshot("a"))
	h.Record(snapshot("a", "b"))

	_, ok := h.Undo()
	require.True(t, ok)
	assert.True(t, h.CanRedo())

	// A new mutation after undo forks the timeline; the old future is gone.
	h.Record(snapshot("a", "c"))
	assert.False(t, h.CanRedo())
	_, ok = h.Redo()
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "c"}, rootIDs(h.Present()))
}

func TestPastIsBounded(t *testing.T) {
	h := New(3)
	for i := 0; i < 10; i++ {
		h.Record(snapshot(fmt.Sprintf("v%d", i)))
	}
	assert.Equal(t, 3, h.Depth())

	// Oldest snapshots were evicted first: only the last three remain.
	for want := 8; want >= 6; want-- {
		restored, ok := h.Undo()
		require.True(t, ok)
		assert.Equal(t, []string{fmt.Sprintf("v%d", want)}, rootIDs(restored))
	}
	_, ok := h.Undo()
	assert.False(t, ok, "evicted snapshots are unreachable")
}

func TestDefaultLimit(t *testing.T) {
	h := New(0)
	for i := 0; i < DefaultLimit+10; i++ {
		h.Record(snapshot(fmt.Sprintf("v%d", i)))
	}
	assert.Equal(t, DefaultLimit, h.Depth())
}

func TestRecordSnapshotsAreIsolated(t *testing.T) {
	h := New(0)
	live := snapshot("a")
	h.Record(live)

	// Mutating the recorded tree afterwards must not rewrite history.
	live[0].Name = "mutated"
	assert.Equal(t, "a", h.Present()[0].Name)

	// And mutating what Undo/Present hand out must not either.
	h.Record(snapshot("a", "b"))
	restored, ok := h.Undo()
	require.True(t, ok)
	restored[0].Name = "mutated"
	assert.Equal(t, "a", h.Present()[0].Name)
}

func TestReset(t *testing.T) {
	h := New(0)
	h.Record(snapshot("a"))
	h.Record(snapshot("a", "b"))
	_, ok := h.Undo()
	require.True(t, ok)

	h.Reset(snapshot("x"))

	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Equal(t, []string{"x"}, rootIDs(h.Present()))
}

// Walks the full editing scenario: three edits, two undos, a fork, and the
// redo that is no longer possible afterwards.
func TestEditUndoForkScenario(t *testing.T) {
	h := New(0)

	h.Record(snapshot("hero"))
	h.Record(snapshot("hero", "button"))
	h.Record(snapshot("hero", "button", "footer"))

	_, ok := h.Undo()
	require.True(t, ok)
	restored, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{"hero"}, rootIDs(restored))
	assert.True(t, h.CanRedo())

	h.Record(snapshot("hero", "gallery"))
	assert.False(t, h.CanRedo())

	restored, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{"hero"}, rootIDs(restored))
}
