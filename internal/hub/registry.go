package hub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/suimarket/nft-relay/internal/model"
)

// Registry tracks live subscriber connections. It exclusively owns every
// Connection it registers: no other component holds transport handles.
type Registry struct {
	cfg    Config
	logger *slog.Logger

	mu    sync.RWMutex
	conns map[string]*Connection
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SendBuffer == 0 {
		cfg.SendBuffer = DefaultConfig().SendBuffer
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}

	return &Registry{
		cfg:    cfg,
		logger: logger,
		conns:  make(map[string]*Connection),
	}
}

// Add registers a newly handshaken transport under id, starts its write
// pump, and queues the connection_established reply before returning.
func (r *Registry) Add(id string, transport Conn) *Connection {
	conn := newConnection(id, transport, r.cfg, r.logger)

	r.mu.Lock()
	r.conns[id] = conn
	count := len(r.conns)
	r.mu.Unlock()

	go conn.writePump()

	established := model.EstablishedMessage{
		Type:         model.TypeConnectionEstablished,
		ClientID:     id,
		Message:      fmt.Sprintf("Connected to event relay for collection %s", r.cfg.Collection),
		Collection:   r.cfg.Collection,
		PollInterval: r.cfg.PollInterval.Milliseconds(),
		Timestamp:    model.NowMillis(),
	}
	if data, err := json.Marshal(established); err == nil {
		conn.enqueue(data)
	}

	r.logger.Info("client connected", "client_id", id, "clients", count)
	return conn
}

// Remove deregisters and closes the connection with the given id.
// No-op if id is unknown.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	conn, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	count := len(r.conns)
	r.mu.Unlock()

	if !ok {
		return
	}

	conn.close()
	r.logger.Info("client disconnected", "client_id", id, "clients", count)
}

// SendTo serializes v and queues it for the one connection with the given
// id. Returns whether delivery was attempted: false when the id is unknown
// or the connection is no longer open. Never blocks on the network.
func (r *Registry) SendTo(id string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("marshal message", "error", err)
		return false
	}

	r.mu.RLock()
	conn, ok := r.conns[id]
	r.mu.RUnlock()

	if !ok {
		return false
	}
	return conn.enqueue(data)
}

// Broadcast serializes v once and queues it for every connection whose
// transport is currently open, skipping closed ones silently. Returns the
// number of connections the message was queued for.
func (r *Registry) Broadcast(v any) int {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("marshal broadcast", "error", err)
		return 0
	}

	r.mu.RLock()
	targets := make([]*Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		targets = append(targets, conn)
	}
	r.mu.RUnlock()

	sent := 0
	for _, conn := range targets {
		if conn.enqueue(data) {
			sent++
		}
	}
	return sent
}

// ListAll returns a snapshot of the registered connections, not a live view.
func (r *Registry) ListAll() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, 0, len(r.conns))
	for _, conn := range r.conns {
		out = append(out, Snapshot{ID: conn.ID, ConnectedAt: conn.ConnectedAt})
	}
	return out
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Shutdown forcibly closes every connection and clears the registry.
// Idempotent.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]*Connection)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.close()
	}

	if len(conns) > 0 {
		r.logger.Info("registry shut down", "closed", len(conns))
	}
}
