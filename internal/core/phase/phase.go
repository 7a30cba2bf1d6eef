package phase

// StationID identifies one production station. It is the name shown on the station tab.
type StationID string

// PhaseID identifies one process phase tracked per station
type PhaseID string

// Phase identifiers, in display order
const (
	StartTime   PhaseID = "VAR_StartZeit"
	StationTime PhaseID = "VAR_StationsZeit"
	WorkTime    PhaseID = "VAR_ArbeitsZeit_Station"
	Return      PhaseID = "VAR_Return"
)

var ordered = [...]PhaseID{StartTime, StationTime, WorkTime, Return}

// All returns the known phases in display order
func All() []PhaseID {
	out := make([]PhaseID, len(ordered))
	copy(out, ordered[:])
	return out
}

// Count returns the number of known phases
func Count() int {
	return len(ordered)
}

// IsKnown reports whether id is one of the fixed phases
func IsKnown(id PhaseID) bool {
	for _, p := range ordered {
		if p == id {
			return true
		}
	}
	return false
}

// Index returns the display position of id, or -1 when unknown
func Index(id PhaseID) int {
	for i, p := range ordered {
		if p == id {
			return i
		}
	}
	return -1
}
