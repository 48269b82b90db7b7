package protocol

import (
	"encoding/json"
	"log/slog"

	"github.com/suimarket/nft-relay/internal/model"
)

// InvalidFormatMessage is the fixed diagnostic sent for non-JSON payloads.
const InvalidFormatMessage = "Invalid message format. Expected JSON."

// Replier delivers a reply to one connection.
type Replier interface {
	SendTo(id string, v any) bool
}

// PollControl is the poller surface the protocol drives.
type PollControl interface {
	TriggerNow()
	UpdateFilters(eventTypes, marketplaces []string)
	Filters() (eventTypes, marketplaces []string)
}

// Handler dispatches inbound subscriber messages.
type Handler struct {
	replies Replier
	poller  PollControl
	logger  *slog.Logger
}

// NewHandler creates a protocol handler.
func NewHandler(replies Replier, poller PollControl, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		replies: replies,
		poller:  poller,
		logger:  logger,
	}
}

// HandleMessage processes one raw inbound message from the connection with
// the given id. It never errors out: protocol problems are surfaced to the
// sender (or dropped) and the connection stays open.
func (h *Handler) HandleMessage(connID string, raw []byte) {
	var msg model.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.replies.SendTo(connID, model.ErrorMessage{
			Type:    model.TypeError,
			Message: InvalidFormatMessage,
		})
		return
	}

	switch msg.Type {
	case model.TypePing:
		h.handlePing(connID, msg)
	case model.TypeGetLatestEvents:
		h.handleGetLatest(connID)
	case model.TypeUpdateFilters:
		h.handleUpdateFilters(connID, msg)
	default:
		h.logger.Debug("ignoring unrecognized message", "client_id", connID, "type", msg.Type)
	}
}

// handlePing replies pong, echoing the original timestamp.
func (h *Handler) handlePing(connID string, msg model.ClientMessage) {
	h.replies.SendTo(connID, model.PongMessage{
		Type:      model.TypePong,
		Timestamp: msg.Timestamp,
	})
}

// handleGetLatest acknowledges immediately, then nudges the poller. Any
// new events arrive later as ordinary broadcasts, not as a direct reply.
func (h *Handler) handleGetLatest(connID string) {
	h.replies.SendTo(connID, model.FetchingMessage{
		Type:      model.TypeFetchingEvents,
		Timestamp: model.NowMillis(),
	})
	h.poller.TriggerNow()
}

// handleUpdateFilters confirms the resolved filter values, then applies
// them. A message carrying neither filter field is ignored.
func (h *Handler) handleUpdateFilters(connID string, msg model.ClientMessage) {
	if msg.EventTypes == nil && msg.Marketplaces == nil {
		h.logger.Debug("update_filters without filters, ignoring", "client_id", connID)
		return
	}

	// Resolve: an absent field keeps its current value.
	eventTypes, marketplaces := h.poller.Filters()
	if msg.EventTypes != nil {
		eventTypes = msg.EventTypes
	}
	if msg.Marketplaces != nil {
		marketplaces = msg.Marketplaces
	}

	h.replies.SendTo(connID, model.FiltersUpdatedMessage{
		Type:         model.TypeFiltersUpdated,
		EventTypes:   eventTypes,
		Marketplaces: marketplaces,
		Timestamp:    model.NowMillis(),
	})

	h.poller.UpdateFilters(msg.EventTypes, msg.Marketplaces)
}
