package hub

import (
	"time"
)

// Conn is the transport surface the registry needs from a subscriber
// connection. *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Config configures the Registry.
type Config struct {
	Collection   string        // Collection ID echoed in the handshake reply
	PollInterval time.Duration // Poll cadence echoed in the handshake reply
	SendBuffer   int           // Per-connection outbound queue length
	WriteTimeout time.Duration // Write deadline for each outbound frame
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   64,
		WriteTimeout: 5 * time.Second,
	}
}

// Snapshot is a point-in-time view of one registered connection.
type Snapshot struct {
	ID          string    `json:"clientId"`
	ConnectedAt time.Time `json:"connectedAt"`
}
