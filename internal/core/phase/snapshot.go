package phase

import "sort"

// Snapshot is one polling instant of server-reported phase activity.
// Wire shape: { "<station>": { "<phase>": bool } }
type Snapshot map[StationID]map[PhaseID]bool

// IsActive reports the flag for (station, phase). Absent entries are inactive.
func (s Snapshot) IsActive(station StationID, id PhaseID) bool {
	phases, ok := s[station]
	if !ok {
		return false
	}
	return phases[id]
}

// ActiveSet returns the activity of every known phase for station.
// Unknown phases reported by the server are dropped.
func (s Snapshot) ActiveSet(station StationID) map[PhaseID]bool {
	out := make(map[PhaseID]bool, len(ordered))
	for _, p := range ordered {
		out[p] = s.IsActive(station, p)
	}
	return out
}

// Stations returns the stations present in the snapshot, sorted by name
func (s Snapshot) Stations() []StationID {
	out := make([]StationID, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
