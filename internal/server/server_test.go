package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/suimarket/nft-relay/internal/hub"
	"github.com/suimarket/nft-relay/internal/protocol"
)

// noopPoller satisfies protocol.PollControl.
type noopPoller struct{}

func (noopPoller) TriggerNow()                   {}
func (noopPoller) UpdateFilters(_, _ []string)   {}
func (noopPoller) Filters() ([]string, []string) { return nil, nil }

func newTestServer(t *testing.T) (*httptest.Server, *hub.Registry) {
	t.Helper()

	registry := hub.NewRegistry(hub.Config{
		Collection:   "0xcol",
		PollInterval: 15 * time.Second,
		SendBuffer:   16,
		WriteTimeout: time.Second,
	}, nil)

	handler := protocol.NewHandler(registry, noopPoller{}, nil)

	s := New(Config{
		Port:         0,
		Collection:   "0xcol",
		PingInterval: time.Minute,
		ReadTimeout:  time.Minute,
	}, registry, handler, nil)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		registry.Shutdown()
		ts.Close()
	})
	return ts, registry
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("reply is not JSON: %v", err)
	}
	return msg
}

func TestHandshakeSendsEstablished(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := dial(t, ts)

	msg := readMessage(t, ws)
	if msg["type"] != "connection_established" {
		t.Errorf("first message type = %v, want connection_established", msg["type"])
	}
	if msg["collection"] != "0xcol" {
		t.Errorf("collection = %v, want 0xcol", msg["collection"])
	}
	if msg["clientId"] == "" || msg["clientId"] == nil {
		t.Error("clientId missing")
	}
}

func TestPingPongEndToEnd(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := dial(t, ts)
	readMessage(t, ws) // connection_established

	err := ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping","timestamp":1000}`))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	msg := readMessage(t, ws)
	if msg["type"] != "pong" {
		t.Errorf("reply type = %v, want pong", msg["type"])
	}
	if msg["timestamp"] != float64(1000) {
		t.Errorf("timestamp = %v, want echoed 1000", msg["timestamp"])
	}
}

func TestInvalidJSONKeepsConnectionOpen(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := dial(t, ts)
	readMessage(t, ws) // connection_established

	ws.WriteMessage(websocket.TextMessage, []byte("not json at all"))

	msg := readMessage(t, ws)
	if msg["type"] != "error" {
		t.Fatalf("reply type = %v, want error", msg["type"])
	}
	if msg["message"] != "Invalid message format. Expected JSON." {
		t.Errorf("error message = %v", msg["message"])
	}

	// The connection stays open: a ping still gets a pong.
	ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping","timestamp":7}`))
	msg = readMessage(t, ws)
	if msg["type"] != "pong" {
		t.Errorf("after error, reply type = %v, want pong", msg["type"])
	}
}

func TestDisconnectDeregisters(t *testing.T) {
	ts, registry := newTestServer(t)
	ws := dial(t, ts)
	readMessage(t, ws)

	if registry.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", registry.Count())
	}

	ws.Close()

	deadline := time.Now().Add(2 * time.Second)
	for registry.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if registry.Count() != 0 {
		t.Errorf("Count() = %d after disconnect, want 0", registry.Count())
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var health map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", health["status"])
	}
	if health["collection"] != "0xcol" {
		t.Errorf("collection = %v, want 0xcol", health["collection"])
	}
}
