package monitor

import (
	"sync"
	"time"

	"github.com/penwyp/go-phase-monitor/internal/core/model"
)

// StateManager records poll outcomes in a thread-safe manner
type StateManager struct {
	mu     sync.RWMutex
	health model.PollHealth
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{}
}

// RecordSuccess marks a successful poll at t
func (sm *StateManager) RecordSuccess(t time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.health.LastAttempt = t
	sm.health.LastSuccess = t
	sm.health.LastError = ""
	sm.health.ConsecutiveFailures = 0
	sm.health.TotalPolls++
}

// RecordFailure marks a failed poll at t
func (sm *StateManager) RecordFailure(t time.Time, err error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.health.LastAttempt = t
	sm.health.LastError = err.Error()
	sm.health.ConsecutiveFailures++
	sm.health.TotalPolls++
	sm.health.TotalFailures++
}

// Health returns a copy of the current poll health
func (sm *StateManager) Health() model.PollHealth {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.health
}
