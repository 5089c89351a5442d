// Package live pushes timeline updates to connected planner views
// over websockets, so every open screen scrubs in lockstep.
package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/canyonplan/planner/internal/timeline"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// serverMessage is the envelope pushed to every subscriber.
type serverMessage struct {
	Type  string         `json:"type"`
	State timeline.State `json:"state"`
}

// clientMessage is a timeline command from a subscriber.
type clientMessage struct {
	Type string  `json:"type"`
	Time float64 `json:"time"`
}

// Hub fans timeline state out to websocket subscribers and applies
// their playback commands. It registers itself as the engine's change
// observer, so state driven by the HTTP API reaches subscribers too.
type Hub struct {
	engine   *timeline.Engine
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub wires a hub to the timeline engine.
func NewHub(engine *timeline.Engine, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	h := &Hub{
		engine: engine,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
	engine.SetOnChange(h.broadcast)
	return h
}

// ServeHTTP upgrades the request and runs the subscriber session.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	// The new subscriber catches up immediately.
	h.send(c, h.engine.State())

	go h.writePump(c)
	h.readPump(c)
}

// broadcast pushes a state change to every subscriber. A subscriber
// whose buffer is full is dropped rather than allowed to stall the
// rest.
func (h *Hub) broadcast(st timeline.State) {
	data, err := json.Marshal(serverMessage{Type: "timeline", State: st})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// send queues one state message for a single subscriber.
func (h *Hub) send(c *client, st timeline.State) {
	data, err := json.Marshal(serverMessage{Type: "timeline", State: st})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	c.conn.Close()
}

func (h *Hub) readPump(c *client) {
	defer h.disconnect(c)

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.log.Warn("discarding malformed live message", "error", err)
			continue
		}

		switch msg.Type {
		case "seek":
			h.engine.Seek(msg.Time)
		case "play":
			h.engine.Play()
		case "pause":
			h.engine.Pause()
		default:
			h.log.Warn("unknown live message type", "type", msg.Type)
		}
	}
}

func (h *Hub) disconnect(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close drops every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}
