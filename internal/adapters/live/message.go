package live

import "time"

// Message types pushed to and accepted from subscribers.
const (
	TypePlays     = "plays"
	TypeHeartbeat = "heartbeat"
	TypeError     = "error"
)

// Message is one frame on the wire.
type Message struct {
	Type      string    `json:"type"`
	GameID    string    `json:"gameId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorPayload describes a rejected client frame.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type clientMessage struct {
	Type string `json:"type"`
}
