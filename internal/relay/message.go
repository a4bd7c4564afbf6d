package relay

import (
	"time"

	"sitebuilder-be/internal/builder/document"
)

// MessageType discriminates the relay wire envelope.
type MessageType string

const (
	// TypeComponentUpdate carries a full document snapshot. Sent by editors
	// and fanned out to viewers with a server-stamped timestamp.
	TypeComponentUpdate MessageType = "component_update"

	// TypeSyncRequest asks the server for the latest snapshot. The reply is
	// private, not broadcast. The protocol defines no server-side timeout;
	// clients treat a missing sync_response after a bounded wait as
	// "no state yet".
	TypeSyncRequest MessageType = "sync_request"

	// TypeSyncResponse answers a sync_request with the latest snapshot.
	TypeSyncResponse MessageType = "sync_response"
)

// Envelope is the JSON frame exchanged over the preview socket.
type Envelope struct {
	Type       MessageType           `json:"type"`
	Components []*document.Component `json:"components,omitempty"`
	Timestamp  int64                 `json:"timestamp,omitempty"`
	ClientID   string                `json:"clientId,omitempty"`
}

func newComponentUpdate(components []*document.Component) Envelope {
	return Envelope{
		Type:       TypeComponentUpdate,
		Components: components,
		Timestamp:  time.Now().UnixMilli(),
	}
}

func newSyncResponse(components []*document.Component) Envelope {
	return Envelope{
		Type:       TypeSyncResponse,
		Components: components,
		Timestamp:  time.Now().UnixMilli(),
	}
}
