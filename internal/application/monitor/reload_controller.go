package monitor

import (
	"context"
	"fmt"
	"sync"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

// TabRebuilder replaces the station tabs
type TabRebuilder interface {
	SetTabs(tabs []phase.StationID)
}

// StatusNotifier shows one-line messages to the operator
type StatusNotifier interface {
	SetStatusMessage(message string)
	Invalidate()
}

// LoopStarter (re)starts the timer loops
type LoopStarter interface {
	Start(ctx context.Context)
}

// ReloadController rebuilds the tabs from the stations file and restarts the loops
type ReloadController struct {
	path     string
	tabs     TabRebuilder
	loops    LoopStarter
	notifier StatusNotifier

	mu sync.Mutex // Prevent concurrent reloads
}

// NewReloadController creates a controller for the stations file at path
func NewReloadController(path string, tabs TabRebuilder, loops LoopStarter, notifier StatusNotifier) *ReloadController {
	return &ReloadController{
		path:     path,
		tabs:     tabs,
		loops:    loops,
		notifier: notifier,
	}
}

// Reload applies the current stations file. A broken file keeps the existing tabs.
func (rc *ReloadController) Reload(ctx context.Context) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	stations, err := LoadStations(rc.path)
	if err != nil {
		util.LogWarn("Keeping previous stations", util.F("file", rc.path), util.F("error", err.Error()))
		if rc.notifier != nil {
			rc.notifier.SetStatusMessage("stations file ignored: " + err.Error())
		}
		return err
	}

	rc.tabs.SetTabs(stations)
	rc.loops.Start(ctx)

	util.LogInfo("Stations reloaded", util.F("file", rc.path), util.F("count", len(stations)))
	if rc.notifier != nil {
		rc.notifier.Invalidate()
		rc.notifier.SetStatusMessage(fmt.Sprintf("stations reloaded (%d)", len(stations)))
	}
	return nil
}
