// Package broadcast formats newly admitted events into the wire envelope
// and fans them out through the connection registry.
package broadcast

import (
	"log/slog"

	"github.com/suimarket/nft-relay/internal/model"
)

// Sink is the fan-out primitive the hub publishes through.
type Sink interface {
	Broadcast(v any) int
}

// Hub wraps event records in the nft_event envelope. Stateless.
type Hub struct {
	sink   Sink
	logger *slog.Logger
}

// NewHub creates a broadcast hub delivering through sink.
func NewHub(sink Sink, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{sink: sink, logger: logger}
}

// Publish envelopes one event record and broadcasts it to every open
// connection. Delivery is best effort; the returned send count is
// observability only.
func (h *Hub) Publish(rec model.EventRecord) {
	sent := h.sink.Broadcast(model.EventMessage{
		Type: model.TypeNFTEvent,
		Data: rec,
	})

	h.logger.Debug("event broadcast",
		"tx_hash", rec.TxHash,
		"event_type", rec.EventType,
		"sent", sent,
	)
}
