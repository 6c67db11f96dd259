// Package live pushes play snapshots to WebSocket subscribers of a game.
package live

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/okian/huddle/pkg/logger"
	"github.com/okian/huddle/pkg/metrics"
)

const broadcastBuffer = 256

// Hub tracks subscribers per game and fans out broadcasts to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.Get().Named("live"),
	}
}

// Run is the hub's main loop. It closes every subscriber when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return
		case c := <-h.register:
			h.add(ctx, c)
		case c := <-h.unregister:
			h.remove(ctx, c)
		case msg := <-h.broadcast:
			h.fanOut(ctx, msg)
		}
	}
}

// Serve upgrades the request and subscribes the connection to gameID.
// initial, when non-nil, is the first frame the subscriber receives. The
// connection lives until ctx is done, so ctx should outlive the request.
func (h *Hub) Serve(ctx context.Context, w http.ResponseWriter, r *http.Request, gameID string, initial *Message) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpgrade, err)
	}
	c := newClient(uuid.NewString(), gameID, conn, h)
	if initial != nil {
		c.trySend(*initial)
	}
	if !h.Register(c) {
		_ = conn.Close()
		return ErrStopped
	}
	go c.writePump(ctx)
	go c.readPump(ctx)
	return nil
}

// Register adds c. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c; it is safe to call after the hub stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues payload for every subscriber of gameID. It never
// blocks; a full buffer drops the message.
func (h *Hub) Broadcast(gameID, msgType string, payload any) bool {
	msg := Message{Type: msgType, GameID: gameID, Payload: payload, Timestamp: time.Now()}
	select {
	case h.broadcast <- msg:
		return true
	default:
		metrics.RecordLiveDropped()
		return false
	}
}

// Subscribers returns the number of clients watching gameID.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[gameID])
}

// Total returns the number of connected clients.
func (h *Hub) Total() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) add(ctx context.Context, c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.GameID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.GameID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	total := h.Total()
	metrics.UpdateLiveSubscribers(total)
	h.logger.Info(ctx, "subscriber connected",
		logger.String("client_id", c.ID),
		logger.String("game_id", c.GameID),
		logger.Int("total", total),
	)
}

func (h *Hub) remove(ctx context.Context, c *Client) {
	h.mu.Lock()
	set := h.clients[c.GameID]
	if _, ok := set[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.GameID)
	}
	close(c.send)
	h.mu.Unlock()

	metrics.UpdateLiveSubscribers(h.Total())
	h.logger.Info(ctx, "subscriber disconnected",
		logger.String("client_id", c.ID),
		logger.String("game_id", c.GameID),
	)
}

func (h *Hub) fanOut(ctx context.Context, msg Message) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[msg.GameID]))
	for c := range h.clients[msg.GameID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if c.trySend(msg) {
			metrics.RecordLiveMessage()
			continue
		}
		metrics.RecordLiveDropped()
		h.logger.Warn(ctx, "subscriber too slow, disconnecting", logger.String("client_id", c.ID))
		h.remove(ctx, c)
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	n := 0
	for gameID, set := range h.clients {
		for c := range set {
			close(c.send)
			n++
		}
		delete(h.clients, gameID)
	}
	h.mu.Unlock()

	metrics.UpdateLiveSubscribers(0)
	h.logger.Info(ctx, "hub stopped", logger.Int("closed", n))
}
