// wsprobe connects to a running relay and exercises the subscriber
// protocol interactively. Server messages stream to stdout; stdin lines
// become control messages.
//
// Commands:
//
//	ping                         send a ping with the current timestamp
//	refresh                      request an on-demand poll
//	filters <types>|<markets>    update filters, comma-separated lists
//	                             (either side may be empty to keep it)
//
// Usage: go run ./cmd/wsprobe --url ws://localhost:8080/ws
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "relay WebSocket URL")
	verbose := flag.Bool("verbose", false, "print raw message JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ws, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Error("dial failed", "url", *url, "error", err)
		os.Exit(1)
	}
	defer ws.Close()

	logger.Info("connected", "url", *url)

	done := make(chan struct{})

	// Print every server message.
	go func() {
		defer close(done)
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				logger.Info("connection closed", "error", err)
				return
			}
			printMessage(data, *verbose)
		}
	}()

	// Turn stdin lines into control messages.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			msg, err := parseCommand(scanner.Text())
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			if msg == nil {
				continue
			}
			if err := ws.WriteJSON(msg); err != nil {
				logger.Error("send failed", "error", err)
				return
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	case <-done:
	}
}

// parseCommand maps one stdin line to a control message, or nil to skip.
func parseCommand(line string) (map[string]any, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}

	switch fields[0] {
	case "ping":
		return map[string]any{
			"type":      "ping",
			"timestamp": time.Now().UnixMilli(),
		}, nil

	case "refresh":
		return map[string]any{"type": "get_latest_events"}, nil

	case "filters":
		if len(fields) < 2 {
			return nil, fmt.Errorf("usage: filters <types>|<marketplaces>")
		}
		spec := strings.Join(fields[1:], " ")
		parts := strings.SplitN(spec, "|", 2)

		msg := map[string]any{"type": "update_filters"}
		if types := splitList(parts[0]); types != nil {
			msg["eventTypes"] = types
		}
		if len(parts) == 2 {
			if markets := splitList(parts[1]); markets != nil {
				msg["marketplaces"] = markets
			}
		}
		return msg, nil

	default:
		return nil, fmt.Errorf("unknown command %q (ping, refresh, filters)", fields[0])
	}
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func printMessage(data []byte, verbose bool) {
	if verbose {
		fmt.Println(string(data))
		return
	}

	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		fmt.Println(string(data))
		return
	}

	switch msg["type"] {
	case "nft_event":
		event, _ := json.Marshal(msg["data"])
		fmt.Printf("[event] %s\n", event)
	case "connection_established":
		fmt.Printf("[connected] clientId=%v collection=%v pollInterval=%vms\n",
			msg["clientId"], msg["collection"], msg["pollInterval"])
	default:
		fmt.Printf("[%v] %s\n", msg["type"], data)
	}
}
