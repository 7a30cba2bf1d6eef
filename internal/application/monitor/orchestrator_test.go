package monitor

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/penwyp/go-phase-monitor/internal/core/monitoring"
	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/penwyp/go-phase-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-phase-monitor/internal/testing/e2e"
	"github.com/penwyp/go-phase-monitor/internal/testing/fixtures"
	"github.com/penwyp/go-phase-monitor/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T, config *MonitorConfig) (*Orchestrator, *bytes.Buffer, *clockwork.FakeClock, *fixtures.PhaseServer) {
	t.Helper()
	server := fixtures.NewPhaseServer()
	t.Cleanup(server.Close)

	config.ServerURL = server.URL
	out := &bytes.Buffer{}
	clock := clockwork.NewFakeClockAt(epoch)

	o, err := NewOrchestrator(config, out, clock)
	require.NoError(t, err)
	t.Cleanup(o.Close)
	return o, out, clock, server
}

func key(r rune) interaction.KeyEvent {
	return interaction.KeyEvent{Key: r, Type: interaction.KeyChar}
}

func TestNewOrchestratorRejectsBadConfig(t *testing.T) {
	_, err := NewOrchestrator(&MonitorConfig{StationCount: 12}, &bytes.Buffer{}, clockwork.NewFakeClock())
	assert.Error(t, err)

	_, err = NewOrchestrator(&MonitorConfig{ServerURL: "ftp://plc"}, &bytes.Buffer{}, clockwork.NewFakeClock())
	assert.Error(t, err)
}

func TestOrchestratorKeyboard(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(t, &MonitorConfig{StationCount: 3})

	assert.False(t, o.handleKeyboard(key('3')))
	station, _ := o.selector.VisibleStation()
	assert.Equal(t, phase.StationID("Station 3"), station)

	assert.False(t, o.handleKeyboard(interaction.KeyEvent{Type: interaction.KeyRight}))
	station, _ = o.selector.VisibleStation()
	assert.Equal(t, phase.StationID("Station 1"), station)

	assert.False(t, o.handleKeyboard(key('?')))
	assert.True(t, o.display.HelpVisible())
	assert.False(t, o.handleKeyboard(interaction.KeyEvent{Key: 27, Type: interaction.KeyEscape}), "escape closes help first")
	assert.False(t, o.display.HelpVisible())

	assert.False(t, o.handleKeyboard(key('x')))
	assert.True(t, o.handleKeyboard(interaction.KeyEvent{Key: 27, Type: interaction.KeyEscape}))
	assert.True(t, o.handleKeyboard(key('q')))
	assert.True(t, o.handleKeyboard(key(3)))
}

func TestOrchestratorPaintsServerActivity(t *testing.T) {
	o, out, clock, server := newTestOrchestrator(t, &MonitorConfig{Stations: []string{"Press", "Weld"}})
	server.SetPhase("Press", string(phase.Return), true)

	o.engine.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 2))

	clock.Advance(DefaultPollInterval)
	require.Eventually(t, func() bool {
		timers, ok := o.engine.Timers("Press")
		return ok && timers[phase.Return].Running
	}, 2*time.Second, 10*time.Millisecond)

	clock.Advance(1500 * time.Millisecond)
	o.engine.Stop()
	o.engine.ticker.Tick()

	screen := e2e.NewTerminalScreen(24, 120)
	screen.Feed(out.String())
	assert.True(t, screen.ContainsText("● Return"))
	assert.True(t, screen.ContainsText("00:01.5"))
	assert.True(t, screen.ContainsText("last poll"))
}

func TestOrchestratorStationsFileChange(t *testing.T) {
	path := writeStations(t, "stations: [Press]\n")
	o, out, _, _ := newTestOrchestrator(t, &MonitorConfig{StationsFile: path})
	require.NotNil(t, o.reloader)
	assert.Equal(t, []phase.StationID{"Press"}, o.selector.Tabs())

	logs := &bytes.Buffer{}
	logger, err := util.NewLogger("debug", "", false)
	require.NoError(t, err)
	logger.AddOutput(util.NewConsoleOutput(logs, util.FormatText))
	util.SetLogger(logger)
	t.Cleanup(util.CloseLogger)

	event := monitoring.FileEvent{Path: path, Operation: "WRITE"}

	require.NoError(t, os.WriteFile(path, []byte("stations: ["), 0o644))
	o.handleStationsChange(context.Background(), event)

	assert.Equal(t, []phase.StationID{"Press"}, o.selector.Tabs(), "broken file keeps the tabs")
	assert.False(t, o.engine.Running())
	assert.Contains(t, logs.String(), "Stations reload skipped")
	screen := e2e.NewTerminalScreen(24, 120)
	screen.Feed(out.String())
	assert.True(t, screen.ContainsText("stations file ignored"))

	require.NoError(t, os.WriteFile(path, []byte("stations: [Press, Paint]\n"), 0o644))
	o.handleStationsChange(context.Background(), event)
	o.engine.Stop()

	assert.Equal(t, []phase.StationID{"Press", "Paint"}, o.selector.Tabs())
	assert.Equal(t, 1, o.engine.Generation())
	screen = e2e.NewTerminalScreen(24, 120)
	screen.Feed(out.String())
	assert.True(t, screen.ContainsText(" 2 Paint "))
}
