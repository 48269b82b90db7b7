package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/suimarket/nft-relay/internal/api"
	"github.com/suimarket/nft-relay/internal/dedup"
	"github.com/suimarket/nft-relay/internal/model"
)

// Poll states. A cycle runs only after winning the idle→in-flight CAS,
// which bounds outbound request concurrency to one.
const (
	stateIdle int32 = iota
	stateInFlight
)

// EventSource performs one fetch against the upstream provider.
type EventSource interface {
	FetchActivities(ctx context.Context, q api.ActivityQuery) ([]model.EventRecord, error)
}

// EventHandler receives newly admitted events.
type EventHandler interface {
	HandleEvent(rec model.EventRecord)
}

// EventHandlerFunc is a function adapter for EventHandler.
type EventHandlerFunc func(model.EventRecord)

func (f EventHandlerFunc) HandleEvent(rec model.EventRecord) {
	f(rec)
}

// Config holds poller configuration. Filters are mutable at runtime via
// UpdateFilters; everything else is fixed for the process lifetime.
type Config struct {
	Interval      time.Duration // Poll cadence
	CollectionID  string        // Catalog being relayed
	EventTypes    []string      // Upstream event-type filter (empty = all)
	Marketplaces  []string      // Upstream marketplace filter (empty = all)
	DedupCapacity int           // Seen-event window bound
}

// Poller owns the polling loop, the dedup window, and the poll filters.
// Exactly one instance exists per process.
type Poller struct {
	source  EventSource
	handler EventHandler
	logger  *slog.Logger

	state atomic.Int32

	cfgMu sync.Mutex
	cfg   Config

	window  *dedup.Window
	trigger chan struct{}
	reset   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, source EventSource, handler EventHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		source:  source,
		handler: handler,
		logger:  logger,
		cfg:     cfg,
		window:  dedup.NewWindow(cfg.DedupCapacity),
		trigger: make(chan struct{}, 1),
		reset:   make(chan struct{}, 1),
	}
}

// Start runs one cycle immediately, then schedules recurring cycles.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("poller started",
		"interval", p.snapshot().Interval,
		"collection", p.snapshot().CollectionID,
	)
	return nil
}

// Stop cancels the recurring timer and waits for the loop to exit. An
// in-flight fetch is not interrupted: it completes and broadcasts
// normally, bounded by the source's own request timeout.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerNow requests an immediate cycle. Coalesced to a no-op while a
// fetch is in flight; concurrent callers collapse into one pending cycle.
func (p *Poller) TriggerNow() {
	if p.state.Load() != stateIdle {
		return
	}
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// UpdateFilters merges the given filters into the poll config (nil keeps
// the current value), restarts the recurring timer, and triggers an
// immediate cycle.
func (p *Poller) UpdateFilters(eventTypes, marketplaces []string) {
	p.cfgMu.Lock()
	if eventTypes != nil {
		p.cfg.EventTypes = eventTypes
	}
	if marketplaces != nil {
		p.cfg.Marketplaces = marketplaces
	}
	p.cfgMu.Unlock()

	p.logger.Info("poll filters updated",
		"event_types", eventTypes,
		"marketplaces", marketplaces,
	)

	select {
	case p.reset <- struct{}{}:
	default:
	}
}

// Filters returns the currently effective filters.
func (p *Poller) Filters() (eventTypes, marketplaces []string) {
	cfg := p.snapshot()
	return cfg.EventTypes, cfg.Marketplaces
}

// snapshot returns a copy of the current config.
func (p *Poller) snapshot() Config {
	p.cfgMu.Lock()
	defer p.cfgMu.Unlock()
	return p.cfg
}

// run is the main polling loop. It is the only goroutine that executes
// cycles, so cycle N finishes broadcasting before cycle N+1 starts.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.snapshot().Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.runCycle()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.runCycle()
		case <-p.trigger:
			p.runCycle()
		case <-p.reset:
			ticker.Reset(p.snapshot().Interval)
			p.runCycle()
		}
	}
}

// runCycle performs one fetch→dedup→forward pass. The CAS makes concurrent
// entry impossible; timer fires and triggers landing mid-cycle are dropped.
func (p *Poller) runCycle() {
	if !p.state.CompareAndSwap(stateIdle, stateInFlight) {
		return
	}
	defer p.state.Store(stateIdle)

	start := time.Now()
	cfg := p.snapshot()

	// Detached from loop cancellation so a committed fetch finishes its
	// cycle during shutdown; the source's request timeout bounds it.
	ctx := context.WithoutCancel(p.ctx)

	records, err := p.source.FetchActivities(ctx, api.ActivityQuery{
		CollectionID: cfg.CollectionID,
		EventTypes:   cfg.EventTypes,
		Marketplaces: cfg.Marketplaces,
	})
	if err != nil {
		// Nothing is lost: the upstream does not mark events consumed,
		// so they reappear on the next successful fetch.
		p.logger.Warn("poll cycle failed", "error", err)
		return
	}

	fresh := 0
	for _, rec := range records {
		if !p.window.IsNew(rec.TxHash) {
			continue
		}
		p.window.Admit(rec.TxHash)
		p.handler.HandleEvent(rec)
		fresh++
	}

	p.logger.Debug("poll cycle complete",
		"fetched", len(records),
		"new", fresh,
		"window", p.window.Len(),
		"duration", time.Since(start),
	)
}
