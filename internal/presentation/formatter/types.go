package formatter

import (
	"io"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
)

// StationStatus is the phase activity of one station at fetch time
type StationStatus struct {
	Station string          `json:"station"`
	Phases  map[string]bool `json:"phases"`
}

// ActiveCount returns how many phases of the station are running
func (s StationStatus) ActiveCount() int {
	n := 0
	for _, active := range s.Phases {
		if active {
			n++
		}
	}
	return n
}

// Formatter writes station statuses in one output format
type Formatter interface {
	Format(w io.Writer, data []StationStatus) error
}

// FromSnapshot flattens a snapshot into rows sorted by station. Every known phase gets a
// column; unknown ones are dropped.
func FromSnapshot(snapshot phase.Snapshot, only []phase.StationID) []StationStatus {
	stations := snapshot.Stations()
	if len(only) > 0 {
		stations = only
	}

	rows := make([]StationStatus, 0, len(stations))
	for _, station := range stations {
		active := snapshot.ActiveSet(station)
		phases := make(map[string]bool, len(active))
		for id, on := range active {
			phases[string(id)] = on
		}
		rows = append(rows, StationStatus{Station: string(station), Phases: phases})
	}
	return rows
}
