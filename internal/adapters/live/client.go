package live

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/okian/huddle/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// Client is one subscriber connection for a single game.
type Client struct {
	ID     string
	GameID string

	conn *websocket.Conn
	send chan Message
	hub  *Hub

	sent atomic.Int64
}

func newClient(id, gameID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:     id,
		GameID: gameID,
		conn:   conn,
		send:   make(chan Message, sendBufferSize),
		hub:    hub,
	}
}

// trySend queues msg without blocking. It reports false when the client
// is too slow to keep up.
func (c *Client) trySend(msg Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug(ctx, "unexpected close", logger.String("client_id", c.ID), logger.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := jsoniter.Unmarshal(data, &msg); err != nil {
			c.trySend(errorMessage(c.GameID, "invalid_message", "frame is not valid JSON"))
			continue
		}
		switch msg.Type {
		case TypeHeartbeat:
			c.trySend(Message{Type: TypeHeartbeat, GameID: c.GameID, Payload: map[string]int64{"sent": c.sent.Load()}, Timestamp: time.Now()})
		default:
			c.trySend(errorMessage(c.GameID, "unknown_message_type", fmt.Sprintf("unknown message type: %s", msg.Type)))
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := jsoniter.Marshal(msg)
			if err != nil {
				c.hub.logger.Warn(ctx, "encode failed", logger.String("client_id", c.ID), logger.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			c.sent.Add(1)

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func errorMessage(gameID, code, text string) Message {
	return Message{Type: TypeError, GameID: gameID, Payload: ErrorPayload{Code: code, Message: text}, Timestamp: time.Now()}
}
