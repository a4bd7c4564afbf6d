package service

import (
	"context"
	"encoding/json"

	"sitebuilder-be/internal/pkg/logger"
	"sitebuilder-be/internal/relay"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPreviewForwarder bridges the in-process document-changed topic to the
// preview relay hub.
type IPreviewForwarder interface {
	Consume(ctx context.Context) error
}

type previewForwarder struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *relay.Hub
	logger    logger.ILogger
}

func NewPreviewForwarder(pubSub *gochannel.GoChannel, topicName string, hub *relay.Hub, log logger.ILogger) IPreviewForwarder {
	return &previewForwarder{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (f *previewForwarder) Consume(ctx context.Context) error {
	messages, err := f.pubSub.Subscribe(ctx, f.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			f.processMessage(msg)
		}
	}()

	return nil
}

func (f *previewForwarder) processMessage(msg *message.Message) {
	var payload DocumentChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		f.logger.Warn("PreviewForwarder", "Dropping malformed document change", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	f.hub.Publish(payload.Components)
	msg.Ack()
}
