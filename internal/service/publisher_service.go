package service

import (
	"encoding/json"
	"time"

	"sitebuilder-be/internal/builder/document"
	"sitebuilder-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// DocumentChangedTopic carries full document snapshots from editing
// sessions to whoever mirrors them (the preview forwarder).
const DocumentChangedTopic = "builder.document.changed"

// DocumentChangedMessage is the payload published per structural mutation.
type DocumentChangedMessage struct {
	SessionId  string                `json:"session_id"`
	ProjectId  string                `json:"project_id,omitempty"`
	Components []*document.Component `json:"components"`
	Timestamp  int64                 `json:"timestamp"`
}

// IPublisherService is the session.Notifier implementation backed by the
// in-process event bus.
type IPublisherService interface {
	DocumentChanged(sessionID, projectID string, components []*document.Component)
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	logger    logger.ILogger
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		logger:    log,
	}
}

func (s *publisherService) DocumentChanged(sessionID, projectID string, components []*document.Component) {
	payload, err := json.Marshal(DocumentChangedMessage{
		SessionId:  sessionID,
		ProjectId:  projectID,
		Components: components,
		Timestamp:  time.Now().UnixMilli(),
	})
	if err != nil {
		s.logger.Error("PublisherService", "Failed to marshal document change", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("PublisherService", "Failed to publish document change", map[string]interface{}{"error": err.Error()})
	}
}
