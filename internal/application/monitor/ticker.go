package monitor

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/penwyp/go-phase-monitor/internal/core/timer"
)

// RenderTicker repaints the visible station's elapsed times at a fast cadence.
// It only reads the timer store and never touches the network.
type RenderTicker struct {
	selector Selector
	store    *timer.Store
	surface  Surface
	state    *StateManager
	clock    clockwork.Clock
	interval time.Duration
}

// NewRenderTicker creates a ticker painting every interval
func NewRenderTicker(selector Selector, store *timer.Store, surface Surface, state *StateManager, clock clockwork.Clock, interval time.Duration) *RenderTicker {
	return &RenderTicker{
		selector: selector,
		store:    store,
		surface:  surface,
		state:    state,
		clock:    clock,
		interval: interval,
	}
}

// Run paints on every interval until ctx is done
func (r *RenderTicker) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.Tick()
		}
	}
}

// Tick paints the visible station once. It is a no-op while no station is selected or the
// selected station has not been observed by the poller yet.
func (r *RenderTicker) Tick() {
	station, ok := r.selector.VisibleStation()
	if !ok {
		return
	}
	timers, ok := r.store.Station(station)
	if !ok {
		return
	}

	now := r.clock.Now()
	for _, id := range phase.All() {
		t := timers[id]
		slot := r.surface.EnsureSlot(station, id)
		slot.SetText(timer.FormatElapsed(t.Current(now)))
		slot.SetActive(t.Running)
	}

	if sink, ok := r.surface.(HealthSink); ok && r.state != nil {
		sink.SetPollHealth(r.state.Health())
	}
	if f, ok := r.surface.(Flusher); ok {
		f.Flush()
	}
}
