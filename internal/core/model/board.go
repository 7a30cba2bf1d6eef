package model

import "github.com/penwyp/go-phase-monitor/internal/core/phase"

// PhaseRow is one painted phase of the visible station
type PhaseRow struct {
	Phase  phase.PhaseID
	Text   string
	Active bool
}

// Board is everything a layout needs to draw one frame
type Board struct {
	Tabs   []phase.StationID
	Active int
	Rows   []PhaseRow
	Server string
	Health PollHealth
}

// Station returns the visible station, or false when there are no tabs
func (b *Board) Station() (phase.StationID, bool) {
	if b.Active < 0 || b.Active >= len(b.Tabs) {
		return "", false
	}
	return b.Tabs[b.Active], true
}

// ActiveCount returns how many phases are running
func (b *Board) ActiveCount() int {
	n := 0
	for _, r := range b.Rows {
		if r.Active {
			n++
		}
	}
	return n
}

// InteractionState represents the current UI interaction state
type InteractionState struct {
	ShowHelp      bool
	LayoutStyle   int    // 0: Full, 1: Minimal
	StatusMessage string // Status message to display
}

// LayoutParam carries per-frame rendering options
type LayoutParam struct {
	Width    int
	ShowHelp bool
}
