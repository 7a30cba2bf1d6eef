package monitor

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/penwyp/go-phase-monitor/internal/core/model"
	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/penwyp/go-phase-monitor/internal/core/timer"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

// Engine owns the poller and render ticker pair. At most one pair runs at a time.
type Engine struct {
	poller *Poller
	ticker *RenderTicker
	store  *timer.Store
	state  *StateManager

	mu         sync.Mutex
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	generation int
}

// NewEngine wires a poller and ticker around one timer store
func NewEngine(fetcher StatusFetcher, selector Selector, surface Surface, clock clockwork.Clock, config *MonitorConfig) *Engine {
	store := timer.NewStore()
	state := NewStateManager()

	return &Engine{
		poller: NewPoller(fetcher, selector, store, state, clock, config.PollInterval),
		ticker: NewRenderTicker(selector, store, surface, state, clock, config.RenderInterval),
		store:  store,
		state:  state,
	}
}

// Start (re)starts both loops under ctx. A running pair is cancelled and drained first so
// two pollers never reconcile the same store.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.generation++

	e.wg.Add(2)
	go func() {
		defer e.wg.Done()
		e.poller.Run(loopCtx)
	}()
	go func() {
		defer e.wg.Done()
		e.ticker.Run(loopCtx)
	}()

	util.LogDebug("Timer loops started", util.F("generation", e.generation))
}

// Stop cancels the loops and waits for them to exit
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.cancel == nil {
		return
	}
	e.cancel()
	e.wg.Wait()
	e.cancel = nil
	util.LogDebug("Timer loops stopped", util.F("generation", e.generation))
}

// Running reports whether a loop pair is active
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancel != nil
}

// Generation counts how many times the loops were started
func (e *Engine) Generation() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Timers returns a copy of one station's timers for read-only consumers such as indicators
func (e *Engine) Timers(station phase.StationID) (map[phase.PhaseID]timer.PhaseTimer, bool) {
	return e.store.Station(station)
}

// Health returns the latest poll health
func (e *Engine) Health() model.PollHealth {
	return e.state.Health()
}
