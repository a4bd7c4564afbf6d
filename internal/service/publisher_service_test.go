package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sitebuilder-be/internal/builder/document"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherServiceEmitsDocumentChanges(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, DocumentChangedTopic)
	require.NoError(t, err)

	svc := NewPublisherService(DocumentChangedTopic, pubSub, nopLogger{})
	svc.DocumentChanged("sess-1", "proj-1", []*document.Component{{ID: "hero", Name: "Hero"}})

	select {
	case msg := <-messages:
		var payload DocumentChangedMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		msg.Ack()

		assert.Equal(t, "sess-1", payload.SessionId)
		assert.Equal(t, "proj-1", payload.ProjectId)
		require.Len(t, payload.Components, 1)
		assert.Equal(t, "hero", payload.Components[0].ID)
		assert.NotZero(t, payload.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no document change was published")
	}
}
