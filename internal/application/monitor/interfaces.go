package monitor

import (
	"context"

	"github.com/penwyp/go-phase-monitor/internal/core/model"
	"github.com/penwyp/go-phase-monitor/internal/core/phase"
)

// StatusFetcher retrieves one snapshot of server-reported phase activity
type StatusFetcher interface {
	Fetch(ctx context.Context) (phase.Snapshot, error)
}

// Selector reports the station the operator is currently looking at.
// It is consulted on every poll and every render tick.
type Selector interface {
	VisibleStation() (phase.StationID, bool)
}

// SlotHandle is the display slot of one (station, phase) pair
type SlotHandle = model.SlotHandle

// Surface hands out display slots
type Surface interface {
	EnsureSlot(station phase.StationID, id phase.PhaseID) SlotHandle
}

// Flusher is implemented by surfaces that batch slot writes
type Flusher interface {
	Flush()
}

// HealthSink is implemented by surfaces that show poll health
type HealthSink interface {
	SetPollHealth(health model.PollHealth)
}
