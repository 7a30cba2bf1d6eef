package timer

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
)

// PhaseTimer is the run state of one (station, phase) pair.
//
// Running is true exactly when StartedAt is set. Elapsed holds the length of the last
// completed run; it is reset to zero when a new run starts.
type PhaseTimer struct {
	Running   bool
	StartedAt time.Time
	Elapsed   time.Duration
}

// Current returns the elapsed time to display at now. It never goes negative.
func (t PhaseTimer) Current(now time.Time) time.Duration {
	d := t.Elapsed
	if t.Running {
		d += now.Sub(t.StartedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}

// TransitionKind describes a state change applied by Store.Apply
type TransitionKind int

const (
	Started TransitionKind = iota
	Stopped
)

func (k TransitionKind) String() string {
	switch k {
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Transition records one phase changing state during Apply
type Transition struct {
	Phase phase.PhaseID
	Kind  TransitionKind
	At    time.Time
	// Run is the length of the finished run for Stopped transitions
	Run time.Duration
}

// Store holds the phase timers of every observed station.
// Apply is the only mutating operation besides Ensure.
type Store struct {
	mu       sync.RWMutex
	stations map[phase.StationID]map[phase.PhaseID]*PhaseTimer
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		stations: make(map[phase.StationID]map[phase.PhaseID]*PhaseTimer),
	}
}

// Ensure creates stopped timers for every known phase of station.
// It is a no-op when the station already exists.
func (s *Store) Ensure(station phase.StationID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stations[station]; ok {
		return
	}

	timers := make(map[phase.PhaseID]*PhaseTimer, phase.Count())
	for _, p := range phase.All() {
		timers[p] = &PhaseTimer{}
	}
	s.stations[station] = timers
}

// Has reports whether station has been ensured
func (s *Store) Has(station phase.StationID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.stations[station]
	return ok
}

// Get returns a copy of the timer for (station, phase)
func (s *Store) Get(station phase.StationID, id phase.PhaseID) (PhaseTimer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	timers, ok := s.stations[station]
	if !ok {
		return PhaseTimer{}, fmt.Errorf("%w: %s", ErrStationNotFound, station)
	}
	t, ok := timers[id]
	if !ok {
		return PhaseTimer{}, fmt.Errorf("%w: %s", ErrUnknownPhase, id)
	}
	return *t, nil
}

// Station returns a consistent copy of every phase timer of station
func (s *Store) Station(station phase.StationID) (map[phase.PhaseID]PhaseTimer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	timers, ok := s.stations[station]
	if !ok {
		return nil, false
	}

	out := make(map[phase.PhaseID]PhaseTimer, len(timers))
	for id, t := range timers {
		out[id] = *t
	}
	return out, true
}

// Stations returns the ensured stations sorted by name
func (s *Store) Stations() []phase.StationID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]phase.StationID, 0, len(s.stations))
	for st := range s.stations {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Apply reconciles the timers of station with the reported phase activity at now.
// Phases missing from active are treated as inactive. All phases are updated under one
// lock so readers never observe a partially applied poll.
func (s *Store) Apply(station phase.StationID, active map[phase.PhaseID]bool, now time.Time) ([]Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers, ok := s.stations[station]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStationNotFound, station)
	}

	var transitions []Transition
	for _, id := range phase.All() {
		t := timers[id]
		isActive := active[id]

		switch {
		case isActive && !t.Running:
			t.Running = true
			t.Elapsed = 0
			t.StartedAt = now
			transitions = append(transitions, Transition{Phase: id, Kind: Started, At: now})

		case !isActive && t.Running:
			run := now.Sub(t.StartedAt)
			if run < 0 {
				// Wall clock stepped backwards; keep Elapsed non-negative
				run = 0
			}
			t.Elapsed += run
			t.Running = false
			t.StartedAt = time.Time{}
			transitions = append(transitions, Transition{Phase: id, Kind: Stopped, At: now, Run: run})
		}
	}

	return transitions, nil
}
