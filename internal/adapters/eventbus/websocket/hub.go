package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// client is one websocket subscriber. An unfiltered client receives every
// event; a filtered one only the events of pollID.
type client struct {
	filtered bool
	pollID   domain.PollID
	conn     *websocket.Conn
	send     chan []byte
}

// Hub pushes contract events to connected websocket clients. Run must be
// running for clients to be served.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan domain.EventEnvelope
	done       chan struct{}
	upgrader   websocket.Upgrader
	logger     *slog.Logger
	connected  atomic.Int64
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan domain.EventEnvelope, sendBuffer),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With("module", "eventbus/websocket"),
	}
}

// Run serves registrations and broadcasts until ctx is done, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.connected.Add(1)
			h.logger.Debug("client registered", "event", "ws_client_registered", "filtered", c.filtered, "poll_id", uint64(c.pollID), "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event domain.EventEnvelope) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode event", "event", "ws_encode_failed", "name", event.Name, "error", err.Error())
		return
	}

	pollID := event.PollID()
	for c := range h.clients {
		if c.filtered && c.pollID != pollID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			// slow consumer
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.connected.Add(-1)
}

// Clients returns the number of registered subscribers.
func (h *Hub) Clients() int {
	return int(h.connected.Load())
}

// Publish queues event for broadcast. Events are dropped when the hub is
// stopped or its queue is full.
func (h *Hub) Publish(_ context.Context, event domain.EventEnvelope) {
	select {
	case <-h.done:
	case h.broadcast <- event:
	default:
		h.logger.Warn("event dropped", "event", "ws_event_dropped", "name", event.Name)
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ServeHTTP upgrades the request to a websocket subscription. The optional
// poll_id query parameter restricts the feed to one poll.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := &client{send: make(chan []byte, sendBuffer)}
	if r.URL.Query().Has("poll_id") {
		id, err := strconv.ParseUint(r.URL.Query().Get("poll_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid poll id", http.StatusBadRequest)
			return
		}
		c.filtered = true
		c.pollID = domain.PollID(id)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", "event", "ws_upgrade_failed", "error", err.Error())
		return
	}

	c.conn = conn
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
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
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("client read failed", "event", "ws_read_failed", "error", err.Error())
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
