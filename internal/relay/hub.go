// Package relay implements the live-preview broadcast hub: one editing
// session pushes full document snapshots in, every passive preview window
// mirrors them out. The hub owns the latest snapshot and the connection
// table exclusively; all state changes flow through a single loop so viewers
// always observe updates in arrival order.
package relay

import (
	"context"
	"encoding/json"
	"time"

	"sitebuilder-be/internal/builder/document"
	"sitebuilder-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const mirrorChannel = "preview_cluster_events"

// frame is one unit of work for the hub loop.
type frame struct {
	from       *Client // nil for server-originated snapshots
	payload    []byte
	fromMirror bool
}

type Config struct {
	Heartbeat time.Duration // ping interval, also the sweep cadence
	Staleness time.Duration // max silence before a connection is evicted
}

type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan frame
	done       chan struct{}

	latest []*document.Component

	heartbeat time.Duration
	staleness time.Duration

	// Optional cross-instance mirror.
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(cfg Config, rdb *redis.Client, log logger.ILogger) *Hub {
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = 30 * time.Second
	}
	if cfg.Staleness <= 0 {
		cfg.Staleness = 5 * time.Minute
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan frame, 256),
		done:       make(chan struct{}),
		heartbeat:  cfg.Heartbeat,
		staleness:  cfg.Staleness,
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run processes registrations, frames and staleness sweeps until Shutdown.
func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeMirror()
	}

	sweep := time.NewTicker(h.heartbeat)
	defer sweep.Stop()

	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client
			h.logger.Info("Relay", "Connection registered", map[string]interface{}{
				"client_id": client.ID, "role": client.Role,
			})
			// Late joiners of either role immediately see current state.
			if len(h.latest) > 0 {
				h.trySend(client, h.marshal(newComponentUpdate(h.latest)))
			}

		case client := <-h.unregister:
			h.drop(client, "closed")

		case f := <-h.inbound:
			h.handleFrame(f)

		case <-sweep.C:
			for _, client := range h.clients {
				if client.idleFor() > h.staleness {
					h.drop(client, "stale")
				}
			}

		case <-h.done:
			for _, client := range h.clients {
				close(client.send)
				client.closeConn()
			}
			h.clients = make(map[string]*Client)
			return
		}
	}
}

// Shutdown closes every live connection and stops the loop. Safe to call
// even if Run was never started, and idempotent.
func (h *Hub) Shutdown() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// Serve attaches an upgraded websocket connection to the hub and blocks
// until the connection drops.
func (h *Hub) Serve(conn *websocket.Conn, role Role) {
	client := newClient(h, conn, uuid.NewString(), role)
	select {
	case h.register <- client:
	case <-h.done:
		client.closeConn()
		return
	}
	go client.writePump()
	client.readPump()
}

// Publish injects a server-originated snapshot, e.g. from the builder
// session's change feed. It goes through the same serialized loop as frames
// read off editor sockets.
func (h *Hub) Publish(components []*document.Component) {
	payload := h.marshal(Envelope{Type: TypeComponentUpdate, Components: components})
	select {
	case h.inbound <- frame{payload: payload}:
	case <-h.done:
	}
}

func (h *Hub) handleFrame(f frame) {
	var env Envelope
	if err := json.Unmarshal(f.payload, &env); err != nil {
		h.logger.Warn("Relay", "Dropping malformed frame", map[string]interface{}{"error": err.Error()})
		return
	}

	switch env.Type {
	case TypeComponentUpdate:
		h.latest = document.CloneList(env.Components)
		out := h.marshal(newComponentUpdate(h.latest))
		// One-directional fan-out: only viewers receive broadcasts, the
		// originating editor (and any other editor) never sees an echo.
		for _, client := range h.clients {
			if client.Role == RoleViewer {
				h.trySend(client, out)
			}
		}
		if !f.fromMirror {
			h.publishMirror(f.payload)
		}

	case TypeSyncRequest:
		if f.from == nil {
			return
		}
		h.trySend(f.from, h.marshal(newSyncResponse(h.latest)))

	default:
		h.logger.Warn("Relay", "Dropping frame with unknown type", map[string]interface{}{"type": string(env.Type)})
	}
}

// trySend queues a frame for the client; a client whose buffer is full is
// considered dead and dropped rather than retried.
func (h *Hub) trySend(client *Client, msg []byte) {
	select {
	case client.send <- msg:
	default:
		h.drop(client, "send buffer full")
	}
}

func (h *Hub) drop(client *Client, reason string) {
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.send)
	client.closeConn()
	h.logger.Info("Relay", "Connection dropped", map[string]interface{}{
		"client_id": client.ID, "role": client.Role, "reason": reason,
	})
}

func (h *Hub) marshal(env Envelope) []byte {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("Relay", "Failed to marshal envelope", map[string]interface{}{"error": err.Error()})
		return []byte("{}")
	}
	return data
}

// mirrorPayload wraps frames replicated between relay instances.
type mirrorPayload struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

func (h *Hub) publishMirror(payload []byte) {
	if h.rdb == nil {
		return
	}
	data, _ := json.Marshal(mirrorPayload{Origin: h.instanceID, Message: payload})
	if err := h.rdb.Publish(context.Background(), mirrorChannel, data).Err(); err != nil {
		h.logger.Warn("Relay", "Mirror publish failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) subscribeMirror() {
	pubsub := h.rdb.Subscribe(context.Background(), mirrorChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload mirrorPayload
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Relay", "Malformed mirror payload", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			select {
			case h.inbound <- frame{payload: payload.Message, fromMirror: true}:
			case <-h.done:
				return
			}
		case <-h.done:
			return
		}
	}
}
