package service

import (
	"testing"
	"time"

	"sitebuilder-be/internal/builder/document"
	"sitebuilder-be/internal/dto"
	"sitebuilder-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestBuilderService() IBuilderService {
	repo := memory.NewSessionRepository(time.Minute)
	return NewBuilderService(repo, nil, 0, nopLogger{})
}

func addRequest() *dto.AddComponentRequest {
	return &dto.AddComponentRequest{
		Component: &document.Component{
			Type:     document.TypeUI,
			Category: "button",
			Props:    map[string]interface{}{"text": "Click"},
		},
	}
}

func TestBuilderServiceSessionLifecycle(t *testing.T) {
	svc := newTestBuilderService()

	created := svc.CreateSession()
	require.NotEmpty(t, created.SessionId)

	state, err := svc.GetState(created.SessionId)
	require.NoError(t, err)
	assert.Empty(t, state.Components)
	assert.False(t, state.CanUndo)

	_, err = svc.GetState("unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestBuilderServiceMutationFlow(t *testing.T) {
	svc := newTestBuilderService()
	sid := svc.CreateSession().SessionId

	added, err := svc.AddComponent(sid, addRequest())
	require.NoError(t, err)
	require.NotNil(t, added.Component)

	require.NoError(t, svc.UpdateComponent(sid, added.Component.ID, &dto.UpdateComponentRequest{
		Props: map[string]interface{}{"text": "Buy now"},
	}))

	state, err := svc.GetState(sid)
	require.NoError(t, err)
	require.Len(t, state.Components, 1)
	assert.Equal(t, "Buy now", state.Components[0].Props["text"])
	assert.Equal(t, added.Component.ID, state.SelectedId)
	assert.True(t, state.CanUndo)

	undone, err := svc.Undo(sid)
	require.NoError(t, err)
	require.Len(t, undone.Components, 1)
	assert.Equal(t, "Click", undone.Components[0].Props["text"])
	assert.True(t, undone.CanRedo)

	redone, err := svc.Redo(sid)
	require.NoError(t, err)
	assert.Equal(t, "Buy now", redone.Components[0].Props["text"])
}

func TestBuilderServiceErrorsPassThrough(t *testing.T) {
	svc := newTestBuilderService()
	sid := svc.CreateSession().SessionId

	err := svc.UpdateComponent(sid, "ghost", &dto.UpdateComponentRequest{})
	assert.ErrorIs(t, err, document.ErrNotFound)

	req := addRequest()
	req.ParentId = "ghost"
	_, err = svc.AddComponent(sid, req)
	assert.ErrorIs(t, err, document.ErrParentNotFound)

	_, err = svc.PasteComponent(sid, &dto.PasteComponentRequest{})
	assert.Error(t, err)
}

func TestBuilderServiceClear(t *testing.T) {
	svc := newTestBuilderService()
	sid := svc.CreateSession().SessionId

	_, err := svc.AddComponent(sid, addRequest())
	require.NoError(t, err)
	require.NoError(t, svc.ClearDocument(sid))

	state, err := svc.GetState(sid)
	require.NoError(t, err)
	assert.Empty(t, state.Components)
	assert.False(t, state.CanUndo)
}
