package broadcast

import (
	"testing"

	"github.com/suimarket/nft-relay/internal/model"
)

type captureSink struct {
	messages []any
}

func (s *captureSink) Broadcast(v any) int {
	s.messages = append(s.messages, v)
	return 1
}

func TestHubPublishEnvelope(t *testing.T) {
	sink := &captureSink{}
	h := NewHub(sink, nil)

	h.Publish(model.EventRecord{TxHash: "0xabc", EventType: "Sale"})

	if len(sink.messages) != 1 {
		t.Fatalf("broadcast count = %d, want 1", len(sink.messages))
	}

	msg, ok := sink.messages[0].(model.EventMessage)
	if !ok {
		t.Fatalf("message type = %T, want model.EventMessage", sink.messages[0])
	}
	if msg.Type != model.TypeNFTEvent {
		t.Errorf("envelope type = %q, want %q", msg.Type, model.TypeNFTEvent)
	}
	if msg.Data.TxHash != "0xabc" {
		t.Errorf("data.txHash = %q, want 0xabc", msg.Data.TxHash)
	}
}
