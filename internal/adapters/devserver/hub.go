package devserver

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	// writeWait bounds a single message write to a client.
	writeWait = 10 * time.Second

	// sendBuffer is the number of messages queued per client before it is dropped.
	sendBuffer = 16

	// maxMessageSize limits what a client may send; the channel is one way.
	maxMessageSize = 512
)

// Message is the JSON payload pushed to browsers.
type Message struct {
	Type string `json:"type"`
}

// Reload message types.
const (
	MessageFullReload = "full_reload"
	MessageCSSReload  = "css_reload"
)

// client is one connected browser. Messages are queued on send and written by writePump.
type client struct {
	conn *websocket.Conn
	send chan Message
}

// hub tracks connected clients. A slow or broken client is dropped without
// affecting the others.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

func (h *hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked must be called with mu held.
func (h *hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *hub) broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.removeLocked(c)
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// close drops every client and rejects new ones.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// writePump writes queued messages until the hub closes send or a write fails.
func (h *hub) writePump(c *client) {
	defer func() {
		_ = c.conn.Close(websocket.StatusGoingAway, "")
	}()

	for msg := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := wsjson.Write(ctx, c.conn, msg)
		cancel()
		if err != nil {
			h.remove(c)
			return
		}
	}
}
