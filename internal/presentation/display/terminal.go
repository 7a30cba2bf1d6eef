package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/penwyp/go-phase-monitor/internal/core/model"
	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/penwyp/go-phase-monitor/internal/core/timer"
	"github.com/penwyp/go-phase-monitor/internal/presentation/layout"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

// DisplayConfig contains console display settings
type DisplayConfig struct {
	Server      string
	LayoutStyle int
	// Width of the frame; zero measures the terminal on every frame
	Width int
}

// TabSource supplies the station tabs to draw
type TabSource interface {
	Tabs() []phase.StationID
	Active() int
}

type slot struct {
	text   string
	active bool
}

// TerminalDisplay is the console surface the render ticker paints into.
// Slot writes only update memory; Flush draws the frame, rewriting changed lines only.
type TerminalDisplay struct {
	config *DisplayConfig
	out    io.Writer
	tabs   TabSource

	mu                sync.Mutex
	slots             map[phase.StationID]map[phase.PhaseID]*slot
	health            model.PollHealth
	state             model.InteractionState
	previousScreen    []string // Previous frame for differential updates
	inAlternateScreen bool
	isFirstRender     bool
}

func NewTerminalDisplay(out io.Writer, tabs TabSource, config *DisplayConfig) *TerminalDisplay {
	return &TerminalDisplay{
		config:        config,
		out:           out,
		tabs:          tabs,
		slots:         make(map[phase.StationID]map[phase.PhaseID]*slot),
		state:         model.InteractionState{LayoutStyle: config.LayoutStyle},
		isFirstRender: true,
	}
}

// slotHandle addresses one (station, phase) slot of a display
type slotHandle struct {
	td      *TerminalDisplay
	station phase.StationID
	id      phase.PhaseID
}

func (h slotHandle) SetText(text string) {
	h.td.mu.Lock()
	defer h.td.mu.Unlock()
	h.td.slotLocked(h.station, h.id).text = text
}

func (h slotHandle) SetActive(active bool) {
	h.td.mu.Lock()
	defer h.td.mu.Unlock()
	h.td.slotLocked(h.station, h.id).active = active
}

// EnsureSlot returns the slot of a phase, creating an idle one on first use
func (td *TerminalDisplay) EnsureSlot(station phase.StationID, id phase.PhaseID) model.SlotHandle {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.slotLocked(station, id)
	return slotHandle{td: td, station: station, id: id}
}

func (td *TerminalDisplay) slotLocked(station phase.StationID, id phase.PhaseID) *slot {
	phases, ok := td.slots[station]
	if !ok {
		phases = make(map[phase.PhaseID]*slot, phase.Count())
		td.slots[station] = phases
	}
	s, ok := phases[id]
	if !ok {
		s = &slot{text: timer.FormatElapsed(0)}
		phases[id] = s
	}
	return s
}

// SetPollHealth updates the status line shown on the next frame
func (td *TerminalDisplay) SetPollHealth(health model.PollHealth) {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.health = health
}

// SetStatusMessage shows message below the frame until replaced; empty clears it
func (td *TerminalDisplay) SetStatusMessage(message string) {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.state.StatusMessage = message
}

// ToggleHelp shows or hides the key help in place of the phase rows
func (td *TerminalDisplay) ToggleHelp() {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.state.ShowHelp = !td.state.ShowHelp
}

// HelpVisible reports whether the key help is shown
func (td *TerminalDisplay) HelpVisible() bool {
	td.mu.Lock()
	defer td.mu.Unlock()
	return td.state.ShowHelp
}

// ToggleLayout switches between the full and minimal layouts
func (td *TerminalDisplay) ToggleLayout() {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.state.LayoutStyle = layout.NextStyle(td.state.LayoutStyle)
	td.isFirstRender = true
}

// Invalidate forces the next frame to redraw the whole screen
func (td *TerminalDisplay) Invalidate() {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.isFirstRender = true
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()

	if !td.inAlternateScreen {
		fmt.Fprint(td.out, util.EnterAltScreen+util.ClearScreen+util.MoveCursorHome+util.HideCursor)
		td.inAlternateScreen = true
		td.isFirstRender = true
	}
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()

	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+util.ExitAltScreen)
		td.inAlternateScreen = false
	}
}

// Flush draws the current frame
func (td *TerminalDisplay) Flush() {
	td.mu.Lock()
	defer td.mu.Unlock()

	board := td.boardLocked()
	param := model.LayoutParam{Width: td.config.Width, ShowHelp: td.state.ShowHelp}
	lines := layout.GetLayoutStrategy(td.state.LayoutStyle).Render(board, param)
	if td.state.StatusMessage != "" {
		lines = append(lines, "  "+td.state.StatusMessage)
	}
	td.drawLocked(lines)
}

func (td *TerminalDisplay) boardLocked() *model.Board {
	board := &model.Board{
		Tabs:   td.tabs.Tabs(),
		Active: td.tabs.Active(),
		Server: td.config.Server,
		Health: td.health,
	}

	station, ok := board.Station()
	if !ok {
		return board
	}
	for _, id := range phase.All() {
		row := model.PhaseRow{Phase: id, Text: timer.FormatElapsed(0)}
		if s, ok := td.slots[station][id]; ok {
			row.Text = s.text
			row.Active = s.active
		}
		board.Rows = append(board.Rows, row)
	}
	return board
}

// drawLocked rewrites only the lines that differ from the previous frame
func (td *TerminalDisplay) drawLocked(lines []string) {
	var b strings.Builder

	if td.isFirstRender {
		b.WriteString(util.ClearScreen)
		td.previousScreen = nil
		td.isFirstRender = false
	}

	for i, line := range lines {
		if i < len(td.previousScreen) && td.previousScreen[i] == line {
			continue
		}
		fmt.Fprintf(&b, "\033[%d;1H%s%s", i+1, line, util.ClearLineToEnd)
	}
	if len(lines) < len(td.previousScreen) {
		fmt.Fprintf(&b, "\033[%d;1H%s", len(lines)+1, util.ClearBelow)
	}
	td.previousScreen = lines

	if b.Len() == 0 {
		return
	}
	if _, err := io.WriteString(td.out, b.String()); err != nil {
		util.LogDebug("Failed to draw frame", util.F("error", err.Error()))
	}
}
