// relay polls the upstream activity provider for one NFT collection and
// fans new events out to WebSocket subscribers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/suimarket/nft-relay/internal/api"
	"github.com/suimarket/nft-relay/internal/broadcast"
	"github.com/suimarket/nft-relay/internal/config"
	"github.com/suimarket/nft-relay/internal/hub"
	"github.com/suimarket/nft-relay/internal/poller"
	"github.com/suimarket/nft-relay/internal/protocol"
	"github.com/suimarket/nft-relay/internal/server"
	"github.com/suimarket/nft-relay/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/relay.yaml", "path to config file")
	flag.Parse()

	// Populate the environment from .env before ${VAR} config expansion.
	_ = godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting relay",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"collection", cfg.Collection.ID,
		"upstream_url", cfg.Upstream.BaseURL,
		"poll_interval", cfg.Poller.Interval,
		"port", cfg.Server.Port,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connection registry
	registry := hub.NewRegistry(hub.Config{
		Collection:   cfg.Collection.ID,
		PollInterval: cfg.Poller.Interval,
		SendBuffer:   cfg.Hub.SendBuffer,
		WriteTimeout: cfg.Hub.WriteTimeout,
	}, logger)

	// Upstream client
	apiClient := api.NewClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Upstream.Timeout),
		api.WithPageSize(cfg.Upstream.PageSize),
	)

	// Poll → dedup → broadcast pipeline
	bcast := broadcast.NewHub(registry, logger)
	poll := poller.New(poller.Config{
		Interval:      cfg.Poller.Interval,
		CollectionID:  cfg.Collection.ID,
		EventTypes:    cfg.Collection.EventTypes,
		Marketplaces:  cfg.Collection.Marketplaces,
		DedupCapacity: cfg.Poller.DedupCapacity,
	}, apiClient, poller.EventHandlerFunc(bcast.Publish), logger)

	// Control protocol + WebSocket front
	handler := protocol.NewHandler(registry, poll, logger)
	srv := server.New(server.Config{
		Port:         cfg.Server.Port,
		Collection:   cfg.Collection.ID,
		PingInterval: cfg.Hub.PingInterval,
		ReadTimeout:  cfg.Hub.ReadTimeout,
	}, registry, handler, logger)

	if err := poll.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := poll.Stop(shutdownCtx); err != nil {
			logger.Warn("poller shutdown", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("relay running",
		"collection", cfg.Collection.ID,
		"ws_url", fmt.Sprintf("ws://localhost:%d/ws", cfg.Server.Port),
	)

	if err := g.Wait(); err != nil {
		logger.Error("relay exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("relay stopped")
}
