package monitor

import (
	"context"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/penwyp/go-phase-monitor/internal/core/monitoring"
	"github.com/penwyp/go-phase-monitor/internal/data/client"
	"github.com/penwyp/go-phase-monitor/internal/presentation/display"
	"github.com/penwyp/go-phase-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

// Orchestrator coordinates all components of the live console
type Orchestrator struct {
	config *MonitorConfig

	// Core components
	client   *client.Client
	engine   *Engine
	reloader *ReloadController

	// UI components
	selector *interaction.TabSelector
	display  *display.TerminalDisplay
	keyboard *interaction.KeyboardReader

	// Monitoring
	watcher *monitoring.FileWatcher
}

// NewOrchestrator creates a console drawing to out
func NewOrchestrator(config *MonitorConfig, out io.Writer, clock clockwork.Clock) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c, err := client.New(config.ServerURL, config.RequestTimeout)
	if err != nil {
		return nil, err
	}

	stations, err := ResolveStations(config)
	if err != nil {
		return nil, err
	}

	selector := interaction.NewTabSelector(stations)
	termDisplay := display.NewTerminalDisplay(out, selector, &display.DisplayConfig{Server: c.BaseURL()})
	engine := NewEngine(c, selector, termDisplay, clock, config)

	o := &Orchestrator{
		config:   config,
		client:   c,
		engine:   engine,
		selector: selector,
		display:  termDisplay,
	}
	if config.StationsFile != "" && len(config.Stations) == 0 {
		o.reloader = NewReloadController(config.StationsFile, selector, engine, termDisplay)
	}
	return o, nil
}

// Run starts the console and blocks until the operator quits or ctx is done
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting phase monitor", util.F("server", o.client.BaseURL()))

	if err := util.InitializeTimeProvider(o.config.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	o.keyboard = keyboard
	defer o.keyboard.Close()

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := o.startWatcher(); err != nil {
		util.LogWarn("Stations file will not be watched", util.F("error", err.Error()))
	}
	defer o.Close()

	o.display.Flush()
	o.engine.Start(ctx)

	var fileEvents <-chan monitoring.FileEvent
	if o.watcher != nil {
		fileEvents = o.watcher.Events()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-o.keyboard.Events():
			if o.handleKeyboard(event) {
				util.LogInfo("Phase monitor stopped by operator")
				return nil
			}
		case event := <-fileEvents:
			o.handleStationsChange(ctx, event)
		}
	}
}

func (o *Orchestrator) startWatcher() error {
	if o.reloader == nil {
		return nil
	}
	watcher, err := monitoring.NewFileWatcher([]string{o.config.StationsFile}, monitoring.DefaultSettle)
	if err != nil {
		return err
	}
	o.watcher = watcher
	return nil
}

// handleStationsChange reapplies the stations file. A rejected file keeps the current tabs.
func (o *Orchestrator) handleStationsChange(ctx context.Context, event monitoring.FileEvent) {
	util.LogDebug("Stations file changed", util.F("path", event.Path), util.F("op", event.Operation))
	if err := o.reloader.Reload(ctx); err != nil {
		util.LogDebug("Stations reload skipped", util.F("error", err.Error()))
	}
	o.display.Flush()
}

// handleKeyboard applies one key and reports whether the console should exit
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	switch {
	case event.Type == interaction.KeyEscape && o.display.HelpVisible():
		// Escape closes help first
		o.display.ToggleHelp()
	case event.IsQuit():
		return true
	case event.Type == interaction.KeyChar && event.Key == '?':
		o.display.ToggleHelp()
	case event.Type == interaction.KeyChar && (event.Key == 't' || event.Key == 'T'):
		o.display.ToggleLayout()
	default:
		if !interaction.ApplyKey(o.selector, event) {
			return false
		}
		o.display.SetStatusMessage("")
	}

	// Repaint right away instead of waiting for the next render tick
	o.engine.ticker.Tick()
	o.display.Flush()
	return false
}

// Close stops the loops and the stations watcher
func (o *Orchestrator) Close() {
	o.engine.Stop()
	if o.watcher != nil {
		if err := o.watcher.Close(); err != nil {
			util.LogDebug("Failed to close stations watcher", util.F("error", err.Error()))
		}
		o.watcher = nil
	}
}
