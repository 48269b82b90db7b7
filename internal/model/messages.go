package model

// Message type tags for the subscriber wire protocol. Every message is a
// UTF-8 JSON object with a mandatory "type" field.
const (
	// Server → client
	TypeConnectionEstablished = "connection_established"
	TypePong                  = "pong"
	TypeNFTEvent              = "nft_event"
	TypeFetchingEvents        = "fetching_events"
	TypeFiltersUpdated        = "filters_updated"
	TypeError                 = "error"

	// Client → server
	TypePing            = "ping"
	TypeGetLatestEvents = "get_latest_events"
	TypeUpdateFilters   = "update_filters"
)

// EstablishedMessage is sent once, immediately after a successful handshake.
type EstablishedMessage struct {
	Type         string `json:"type"`
	ClientID     string `json:"clientId"`
	Message      string `json:"message"`
	Collection   string `json:"collection"`
	PollInterval int64  `json:"pollInterval"` // ms
	Timestamp    int64  `json:"timestamp"`
}

// PongMessage echoes the timestamp of the ping it answers.
type PongMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// EventMessage is the broadcast envelope for one marketplace event.
type EventMessage struct {
	Type string      `json:"type"`
	Data EventRecord `json:"data"`
}

// FetchingMessage acknowledges an on-demand refresh request.
type FetchingMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// FiltersUpdatedMessage confirms a filter change with the resolved values.
type FiltersUpdatedMessage struct {
	Type         string   `json:"type"`
	EventTypes   []string `json:"eventTypes"`
	Marketplaces []string `json:"marketplaces"`
	Timestamp    int64    `json:"timestamp"`
}

// ErrorMessage surfaces a protocol error to one connection.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ClientMessage is the superset of all inbound subscriber messages,
// dispatched on Type. Nil filter slices mean the field was absent.
type ClientMessage struct {
	Type         string   `json:"type"`
	Timestamp    int64    `json:"timestamp"`
	EventTypes   []string `json:"eventTypes"`
	Marketplaces []string `json:"marketplaces"`
}
