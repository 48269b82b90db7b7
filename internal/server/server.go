// Package server exposes the relay over HTTP: the /ws subscriber endpoint
// plus health and debug surfaces.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/suimarket/nft-relay/internal/hub"
)

// maxMessageSize bounds inbound control messages; they are small JSON.
const maxMessageSize = 4096

// Config holds server settings.
type Config struct {
	Port         int
	Collection   string
	PingInterval time.Duration
	ReadTimeout  time.Duration
}

// MessageHandler consumes inbound subscriber messages.
type MessageHandler interface {
	HandleMessage(connID string, raw []byte)
}

// Server is the HTTP/WebSocket front of the relay.
type Server struct {
	cfg      Config
	registry *hub.Registry
	handler  MessageHandler
	logger   *slog.Logger

	router     chi.Router
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New creates a Server wired to the given registry and message handler.
func New(cfg Config, registry *hub.Registry, handler MessageHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		registry: registry,
		handler:  handler,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Subscribers are unauthenticated by design; accept any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWS)
	r.Get("/health", s.handleHealth)
	r.Get("/debug/clients", s.handleClients)
	s.router = r

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving connections until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting new connections and closes the listener.
// Live WebSocket connections are torn down via the registry.
func (s *Server) Shutdown(ctx context.Context) error {
	s.registry.Shutdown()
	return s.httpServer.Shutdown(ctx)
}

// handleWS upgrades the request and runs the connection's read loop.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	id := uuid.NewString()
	s.registry.Add(id, ws)
	defer s.registry.Remove(id)

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(ws, done)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read loop ended", "client_id", id, "error", err)
			}
			return
		}
		s.handler.HandleMessage(id, data)
	}
}

// pingLoop keeps the connection's read deadline fed. WriteControl is safe
// concurrently with the registry's write pump.
func (s *Server) pingLoop(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// handleHealth reports liveness and subscriber count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status     string `json:"status"`
		Collection string `json:"collection"`
		Clients    int    `json:"clients"`
	}{
		Status:     "healthy",
		Collection: s.cfg.Collection,
		Clients:    s.registry.Count(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleClients dumps a snapshot of connected subscribers.
func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	clients := s.registry.ListAll()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":   len(clients),
		"clients": clients,
	})
}
