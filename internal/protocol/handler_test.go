package protocol

import (
	"testing"

	"github.com/suimarket/nft-relay/internal/model"
)

// fakeReplier captures per-connection replies.
type fakeReplier struct {
	replies []reply
}

type reply struct {
	connID string
	msg    any
}

func (f *fakeReplier) SendTo(id string, v any) bool {
	f.replies = append(f.replies, reply{connID: id, msg: v})
	return true
}

// fakePoller records control actions.
type fakePoller struct {
	triggers      int
	eventTypes    []string
	marketplaces  []string
	updatedTypes  []string
	updatedMkts   []string
	updatedCalled bool
}

func (f *fakePoller) TriggerNow() { f.triggers++ }

func (f *fakePoller) UpdateFilters(eventTypes, marketplaces []string) {
	f.updatedCalled = true
	f.updatedTypes = eventTypes
	f.updatedMkts = marketplaces
}

func (f *fakePoller) Filters() ([]string, []string) {
	return f.eventTypes, f.marketplaces
}

func TestHandlePing(t *testing.T) {
	replier := &fakeReplier{}
	h := NewHandler(replier, &fakePoller{}, nil)

	h.HandleMessage("c1", []byte(`{"type":"ping","timestamp":1000}`))

	if len(replier.replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(replier.replies))
	}
	pong, ok := replier.replies[0].msg.(model.PongMessage)
	if !ok {
		t.Fatalf("reply type = %T, want PongMessage", replier.replies[0].msg)
	}
	if pong.Type != model.TypePong {
		t.Errorf("pong type = %q, want %q", pong.Type, model.TypePong)
	}
	if pong.Timestamp != 1000 {
		t.Errorf("pong timestamp = %d, want echoed 1000", pong.Timestamp)
	}
	if replier.replies[0].connID != "c1" {
		t.Errorf("reply went to %q, want c1", replier.replies[0].connID)
	}
}

func TestHandleNonJSON(t *testing.T) {
	replier := &fakeReplier{}
	h := NewHandler(replier, &fakePoller{}, nil)

	h.HandleMessage("c1", []byte("definitely not json"))

	if len(replier.replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(replier.replies))
	}
	errMsg, ok := replier.replies[0].msg.(model.ErrorMessage)
	if !ok {
		t.Fatalf("reply type = %T, want ErrorMessage", replier.replies[0].msg)
	}
	if errMsg.Message != "Invalid message format. Expected JSON." {
		t.Errorf("error message = %q", errMsg.Message)
	}
}

func TestHandleGetLatestEvents(t *testing.T) {
	replier := &fakeReplier{}
	poller := &fakePoller{}
	h := NewHandler(replier, poller, nil)

	h.HandleMessage("c1", []byte(`{"type":"get_latest_events"}`))

	if len(replier.replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(replier.replies))
	}
	if _, ok := replier.replies[0].msg.(model.FetchingMessage); !ok {
		t.Fatalf("reply type = %T, want FetchingMessage", replier.replies[0].msg)
	}
	if poller.triggers != 1 {
		t.Errorf("TriggerNow calls = %d, want 1", poller.triggers)
	}
}

func TestHandleUpdateFilters(t *testing.T) {
	replier := &fakeReplier{}
	poller := &fakePoller{
		eventTypes:   []string{"Sale"},
		marketplaces: []string{"TradePort"},
	}
	h := NewHandler(replier, poller, nil)

	// Only eventTypes present: marketplaces resolve to the current value.
	h.HandleMessage("c1", []byte(`{"type":"update_filters","eventTypes":["List","Burn"]}`))

	if len(replier.replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(replier.replies))
	}
	updated, ok := replier.replies[0].msg.(model.FiltersUpdatedMessage)
	if !ok {
		t.Fatalf("reply type = %T, want FiltersUpdatedMessage", replier.replies[0].msg)
	}
	if len(updated.EventTypes) != 2 || updated.EventTypes[0] != "List" {
		t.Errorf("resolved eventTypes = %v, want [List Burn]", updated.EventTypes)
	}
	if len(updated.Marketplaces) != 1 || updated.Marketplaces[0] != "TradePort" {
		t.Errorf("resolved marketplaces = %v, want [TradePort]", updated.Marketplaces)
	}

	if !poller.updatedCalled {
		t.Fatal("UpdateFilters not called")
	}
	if len(poller.updatedTypes) != 2 {
		t.Errorf("UpdateFilters eventTypes = %v, want [List Burn]", poller.updatedTypes)
	}
	if poller.updatedMkts != nil {
		t.Errorf("UpdateFilters marketplaces = %v, want nil (absent)", poller.updatedMkts)
	}
}

func TestHandleUpdateFiltersWithoutFilters(t *testing.T) {
	replier := &fakeReplier{}
	poller := &fakePoller{}
	h := NewHandler(replier, poller, nil)

	h.HandleMessage("c1", []byte(`{"type":"update_filters"}`))

	if len(replier.replies) != 0 {
		t.Errorf("replies = %d, want 0", len(replier.replies))
	}
	if poller.updatedCalled {
		t.Error("UpdateFilters called with no filters present")
	}
}

func TestHandleUnrecognizedType(t *testing.T) {
	replier := &fakeReplier{}
	poller := &fakePoller{}
	h := NewHandler(replier, poller, nil)

	h.HandleMessage("c1", []byte(`{"type":"subscribe_orderbook"}`))

	if len(replier.replies) != 0 {
		t.Errorf("replies = %d, want 0 (unrecognized types are ignored)", len(replier.replies))
	}
	if poller.triggers != 0 {
		t.Errorf("TriggerNow calls = %d, want 0", poller.triggers)
	}
}
