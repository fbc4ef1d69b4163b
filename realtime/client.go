package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/portal-arena/auth"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Frames carry whole tournament snapshots, so the read limit has to be
	// generous compared to a chat-style hub.
	maxMessageSize = 1 << 20
)

// Client is one connected viewer. The capability is whatever token the
// connection presented at upgrade time; nil means an unauthenticated
// (read-only) viewer.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	capability *auth.Capability

	// rooms this client has joined, keyed by tournament id. Owned by the hub
	// goroutine; never touched from the pumps.
	rooms map[string]bool

	// mu guards closed. The hub closes send during unregister or shutdown
	// while ReadPump may still be enqueueing error frames, so both sides
	// have to agree on whether the channel is still open.
	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, capability *auth.Capability) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		capability: capability,
		rooms:      make(map[string]bool),
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// enqueue pushes an already-marshalled frame to the client without blocking
// the caller. A full buffer means the consumer is too slow; the frame is
// dropped, the next snapshot will supersede it anyway. Frames arriving after
// closeSend are dropped too.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// ReadPump reads protocol envelopes off the connection and forwards them to
// the hub, which applies them strictly in arrival order. Runs as its own
// goroutine per connection; exits on any read error and triggers the
// unregister.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", slog.Any("error", err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			if frame, merr := json.Marshal(Envelope{Type: MsgError, Message: "malformed message"}); merr == nil {
				c.enqueue(frame)
			}
			continue
		}
		select {
		case c.hub.events <- inbound{client: c, env: env}:
		case <-c.hub.done:
			return
		}
	}
}

// WritePump drains the send channel onto the connection and keeps the
// connection alive with pings. Runs as its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
