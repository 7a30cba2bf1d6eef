package interaction

import (
	"fmt"
	"strings"
	"sync"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
)

// TabSelector tracks the station tabs and which one is in front.
// The poller and render ticker ask it for the visible station on every cycle.
type TabSelector struct {
	mu     sync.RWMutex
	tabs   []phase.StationID
	active int
}

// NewTabSelector creates a selector over tabs with the first tab active
func NewTabSelector(tabs []phase.StationID) *TabSelector {
	s := &TabSelector{}
	s.tabs = append(s.tabs, tabs...)
	return s
}

// VisibleStation returns the active tab, or false when there are no tabs
func (s *TabSelector) VisibleStation() (phase.StationID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.tabs) == 0 {
		return "", false
	}
	return s.tabs[s.active], true
}

// Active returns the index of the active tab
func (s *TabSelector) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Tabs returns a copy of the tab names in display order
func (s *TabSelector) Tabs() []phase.StationID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]phase.StationID, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// Activate brings the tab at index to the front. Out of range indexes are ignored.
func (s *TabSelector) Activate(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.tabs) {
		return false
	}
	s.active = index
	return true
}

// Next activates the following tab, wrapping around
func (s *TabSelector) Next() {
	s.step(1)
}

// Prev activates the preceding tab, wrapping around
func (s *TabSelector) Prev() {
	s.step(-1)
}

func (s *TabSelector) step(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.tabs)
	if n == 0 {
		return
	}
	s.active = ((s.active+delta)%n + n) % n
}

// Select activates the tab named station
func (s *TabSelector) Select(station phase.StationID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tab := range s.tabs {
		if tab == station {
			s.active = i
			return true
		}
	}
	return false
}

// Rename changes the name of the tab at index. Names must be non-blank and unique.
func (s *TabSelector) Rename(index int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("station name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.tabs) {
		return fmt.Errorf("no tab at index %d", index)
	}
	for i, tab := range s.tabs {
		if i != index && tab == phase.StationID(name) {
			return fmt.Errorf("station %q already has a tab", name)
		}
	}
	s.tabs[index] = phase.StationID(name)
	return nil
}

// SetTabs replaces all tabs. The active station stays in front when it survives the
// rebuild; otherwise the first tab becomes active.
func (s *TabSelector) SetTabs(tabs []phase.StationID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current phase.StationID
	if len(s.tabs) > 0 {
		current = s.tabs[s.active]
	}

	s.tabs = append(s.tabs[:0:0], tabs...)
	s.active = 0
	for i, tab := range s.tabs {
		if tab == current {
			s.active = i
			break
		}
	}
}

// StaticSelector always reports the same station. The zero value selects nothing.
type StaticSelector struct {
	Station phase.StationID
}

// VisibleStation returns the fixed station
func (s StaticSelector) VisibleStation() (phase.StationID, bool) {
	return s.Station, s.Station != ""
}
