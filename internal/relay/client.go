package relay

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
)

// Role distinguishes connections that originate document changes from
// connections that passively mirror them.
type Role string

const (
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20 // snapshots carry whole documents
)

// Client is the middleman between one websocket connection and the hub.
type Client struct {
	ID   string
	Role Role

	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound frames, written only by the hub loop.
	send chan []byte

	// Unix nanos of the last read or pong, for staleness eviction.
	lastSeen atomic.Int64
}

func newClient(hub *Hub, conn *websocket.Conn, id string, role Role) *Client {
	c := &Client{
		ID:   id,
		Role: role,
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 64),
	}
	c.touch()
	return c
}

func (c *Client) touch() {
	c.lastSeen.Store(time.Now().UnixNano())
}

func (c *Client) idleFor() time.Duration {
	return time.Duration(time.Now().UnixNano() - c.lastSeen.Load())
}

// closeConn tears down the socket if one exists (tests run hub logic
// without a real connection).
func (c *Client) closeConn() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// readPump forwards incoming frames to the hub until the connection drops.
// Runs in the upgrade handler's goroutine.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.closeConn()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.staleness))
	c.conn.SetPongHandler(func(string) error {
		c.touch()
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.staleness))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.touch()
		select {
		case c.hub.inbound <- frame{from: c, payload: payload}:
		case <-c.hub.done:
			return
		}
	}
}

// writePump drains the send channel onto the socket and probes the peer on
// the hub's heartbeat interval.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.heartbeat)
	defer func() {
		ticker.Stop()
		c.closeConn()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
