package relay

import (
	"encoding/json"
	"testing"
	"time"

	"sitebuilder-be/internal/builder/document"
	"sitebuilder-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

var _ logger.ILogger = nopLogger{}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(Config{Heartbeat: time.Hour, Staleness: time.Hour}, nil, nopLogger{})
	go h.Run()
	t.Cleanup(h.Shutdown)
	return h
}

// attach registers a connection-less client and waits for the hub loop to
// pick it up.
func attach(t *testing.T, h *Hub, role Role) *Client {
	t.Helper()
	c := newClient(h, nil, string(role)+"-"+t.Name()+time.Now().String(), role)
	select {
	case h.register <- c:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept registration")
	}
	return c
}

func sendFrame(t *testing.T, h *Hub, from *Client, env Envelope) {
	t.Helper()
	payload, err := json.Marshal(env)
	require.NoError(t, err)
	select {
	case h.inbound <- frame{from: from, payload: payload}:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept frame")
	}
}

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case msg := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(msg, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("expected a frame, got none")
		return Envelope{}
	}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("expected no frame, got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func snapshot(ids ...string) []*document.Component {
	out := make([]*document.Component, len(ids))
	for i, id := range ids {
		out[i] = &document.Component{ID: id, Name: id}
	}
	return out
}

func TestUpdateFansOutToViewersOnly(t *testing.T) {
	h := startHub(t)
	editor := attach(t, h, RoleEditor)
	secondEditor := attach(t, h, RoleEditor)
	viewer1 := attach(t, h, RoleViewer)
	viewer2 := attach(t, h, RoleViewer)

	sendFrame(t, h, editor, Envelope{Type: TypeComponentUpdate, Components: snapshot("hero")})

	for _, viewer := range []*Client{viewer1, viewer2} {
		env := receive(t, viewer)
		assert.Equal(t, TypeComponentUpdate, env.Type)
		require.Len(t, env.Components, 1)
		assert.Equal(t, "hero", env.Components[0].ID)
		assert.NotZero(t, env.Timestamp, "broadcasts carry a server timestamp")
	}

	// No echo to the sender, and no editor-to-editor traffic either.
	expectSilence(t, editor)
	expectSilence(t, secondEditor)
}

func TestLateJoinerReceivesLatestSnapshot(t *testing.T) {
	h := startHub(t)
	editor := attach(t, h, RoleEditor)
	sendFrame(t, h, editor, Envelope{Type: TypeComponentUpdate, Components: snapshot("hero", "footer")})

	// Joins after the update was published.
	late := attach(t, h, RoleViewer)

	env := receive(t, late)
	assert.Equal(t, TypeComponentUpdate, env.Type)
	assert.Len(t, env.Components, 2)
}

func TestLateJoinerWithNoStateGetsNothing(t *testing.T) {
	h := startHub(t)
	viewer := attach(t, h, RoleViewer)
	expectSilence(t, viewer)
}

func TestSyncRequestGetsPrivateReply(t *testing.T) {
	h := startHub(t)
	editor := attach(t, h, RoleEditor)
	viewer := attach(t, h, RoleViewer)
	other := attach(t, h, RoleViewer)

	sendFrame(t, h, editor, Envelope{Type: TypeComponentUpdate, Components: snapshot("hero")})
	receive(t, viewer)
	receive(t, other)

	sendFrame(t, h, viewer, Envelope{Type: TypeSyncRequest})

	env := receive(t, viewer)
	assert.Equal(t, TypeSyncResponse, env.Type)
	require.Len(t, env.Components, 1)
	assert.Equal(t, "hero", env.Components[0].ID)

	// The reply goes only to the requester.
	expectSilence(t, other)
}

func TestServerPublishReachesViewers(t *testing.T) {
	h := startHub(t)
	viewer := attach(t, h, RoleViewer)

	h.Publish(snapshot("hero"))

	env := receive(t, viewer)
	assert.Equal(t, TypeComponentUpdate, env.Type)
	require.Len(t, env.Components, 1)
	assert.Equal(t, "hero", env.Components[0].ID)
}

func TestMalformedFrameIsDropped(t *testing.T) {
	h := startHub(t)
	editor := attach(t, h, RoleEditor)
	viewer := attach(t, h, RoleViewer)

	select {
	case h.inbound <- frame{from: editor, payload: []byte("{not json")}:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept frame")
	}
	expectSilence(t, viewer)

	// The hub keeps serving both connections afterwards.
	sendFrame(t, h, editor, Envelope{Type: TypeComponentUpdate, Components: snapshot("hero")})
	env := receive(t, viewer)
	assert.Equal(t, TypeComponentUpdate, env.Type)
}

func TestUnknownTypeIsDropped(t *testing.T) {
	h := startHub(t)
	editor := attach(t, h, RoleEditor)
	viewer := attach(t, h, RoleViewer)

	sendFrame(t, h, editor, Envelope{Type: "mystery"})
	expectSilence(t, viewer)
}

func TestSlowViewerIsDropped(t *testing.T) {
	h := startHub(t)
	editor := attach(t, h, RoleEditor)
	viewer := attach(t, h, RoleViewer)

	// Fill the viewer's buffer without draining it, then push one more.
	for i := 0; i <= cap(viewer.send); i++ {
		sendFrame(t, h, editor, Envelope{Type: TypeComponentUpdate, Components: snapshot("hero")})
	}

	// Frames are handled in order, so the editor's private sync reply
	// arriving means every queued update above has been processed and the
	// overflowing send already happened.
	sendFrame(t, h, editor, Envelope{Type: TypeSyncRequest})
	env := receive(t, editor)
	require.Equal(t, TypeSyncResponse, env.Type)

	// The hub closes the send channel when it drops a client.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-viewer.send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("slow viewer was never dropped")
		}
	}
}

func TestBroadcastSnapshotIsIsolatedFromSender(t *testing.T) {
	h := startHub(t)
	editor := attach(t, h, RoleEditor)
	viewer := attach(t, h, RoleViewer)

	components := snapshot("hero")
	sendFrame(t, h, editor, Envelope{Type: TypeComponentUpdate, Components: components})
	receive(t, viewer)

	// Mutating the editor's copy later must not leak into what late joiners
	// or sync requesters see.
	components[0].Name = "mutated"
	sendFrame(t, h, viewer, Envelope{Type: TypeSyncRequest})
	env := receive(t, viewer)
	require.Len(t, env.Components, 1)
	assert.Equal(t, "hero", env.Components[0].Name)
}

func TestShutdownClosesClients(t *testing.T) {
	h := NewHub(Config{Heartbeat: time.Hour, Staleness: time.Hour}, nil, nopLogger{})
	go h.Run()
	viewer := attach(t, h, RoleViewer)

	h.Shutdown()
	h.Shutdown() // idempotent

	select {
	case _, ok := <-viewer.send:
		assert.False(t, ok, "send channel is closed on shutdown")
	case <-time.After(time.Second):
		t.Fatal("client was not released on shutdown")
	}

	// Publishing after shutdown must not block.
	done := make(chan struct{})
	go func() {
		h.Publish(snapshot("hero"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after shutdown")
	}
}

func TestStaleConnectionIsSwept(t *testing.T) {
	h := NewHub(Config{Heartbeat: 20 * time.Millisecond, Staleness: 40 * time.Millisecond}, nil, nopLogger{})
	go h.Run()
	t.Cleanup(h.Shutdown)

	viewer := attach(t, h, RoleViewer)

	// Never touch the client again; the sweeper must evict it.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-viewer.send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stale connection was never evicted")
		}
	}
}
