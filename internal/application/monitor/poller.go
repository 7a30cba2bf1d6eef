package monitor

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/penwyp/go-phase-monitor/internal/core/timer"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

// Poller periodically fetches phase activity and reconciles the visible station's timers.
// It is the only writer of the timer store.
type Poller struct {
	fetcher  StatusFetcher
	selector Selector
	store    *timer.Store
	state    *StateManager
	clock    clockwork.Clock
	interval time.Duration
}

// NewPoller creates a poller running every interval
func NewPoller(fetcher StatusFetcher, selector Selector, store *timer.Store, state *StateManager, clock clockwork.Clock, interval time.Duration) *Poller {
	return &Poller{
		fetcher:  fetcher,
		selector: selector,
		store:    store,
		state:    state,
		clock:    clock,
		interval: interval,
	}
}

// Run polls on every interval until ctx is done. The first poll happens one interval after start.
func (p *Poller) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			p.Poll(ctx)
		}
	}
}

// Poll performs one fetch and reconciliation cycle. A failed fetch leaves the store untouched;
// the next cycle is the retry.
func (p *Poller) Poll(ctx context.Context) {
	snapshot, err := p.fetcher.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.state.RecordFailure(p.clock.Now(), err)
		util.LogDebug("Status poll failed", util.F("error", err.Error()))
		return
	}

	now := p.clock.Now()
	p.state.RecordSuccess(now)

	// Resolve visibility after the fetch: the operator may have switched tabs meanwhile
	station, ok := p.selector.VisibleStation()
	if !ok {
		return
	}

	p.store.Ensure(station)
	transitions, err := p.store.Apply(station, snapshot.ActiveSet(station), now)
	if err != nil {
		util.LogWarn("Failed to apply phase status", util.F("station", string(station)), util.F("error", err.Error()))
		return
	}

	for _, tr := range transitions {
		fields := []util.Field{
			util.F("station", string(station)),
			util.F("phase", string(tr.Phase)),
		}
		if tr.Kind == timer.Stopped {
			fields = append(fields, util.F("run", timer.FormatElapsed(tr.Run)))
		}
		util.LogDebug("Phase "+tr.Kind.String(), fields...)
	}
}
