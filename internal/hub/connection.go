package hub

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Connection is one live subscriber. All outbound frames flow through the
// send queue and a single write pump goroutine, so successive sends to the
// same connection are delivered in call order.
type Connection struct {
	ID          string
	ConnectedAt time.Time

	transport    Conn
	send         chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	open         atomic.Bool
	writeTimeout time.Duration
	logger       *slog.Logger
}

func newConnection(id string, transport Conn, cfg Config, logger *slog.Logger) *Connection {
	c := &Connection{
		ID:           id,
		ConnectedAt:  time.Now(),
		transport:    transport,
		send:         make(chan []byte, cfg.SendBuffer),
		done:         make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
		logger:       logger.With("client_id", id),
	}
	c.open.Store(true)
	return c
}

// IsOpen reports whether the connection still accepts outbound messages.
func (c *Connection) IsOpen() bool {
	return c.open.Load()
}

// enqueue queues data for delivery iff the connection is open. It never
// blocks: when the send buffer is full the frame is dropped for this
// subscriber. Returns whether delivery was attempted.
func (c *Connection) enqueue(data []byte) bool {
	if !c.open.Load() {
		return false
	}

	select {
	case c.send <- data:
	case <-c.done:
		return false
	default:
		c.logger.Warn("send buffer full, dropping message")
	}
	return true
}

// close marks the connection closed and tears down the transport.
// Idempotent; safe from any goroutine.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		c.open.Store(false)
		close(c.done)
		c.transport.Close()
	})
}

// writePump drains the send queue onto the transport. A write error closes
// the connection; the server's read loop notices and deregisters it.
func (c *Connection) writePump() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.transport.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.transport.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("write failed, closing connection", "error", err)
				c.close()
				return
			}
		}
	}
}
