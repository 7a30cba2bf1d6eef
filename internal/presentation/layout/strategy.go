package layout

import (
	"github.com/penwyp/go-phase-monitor/internal/core/model"
)

const (
	StyleFull = iota
	StyleMinimal
)

// LayoutStrategy defines the interface for different layout rendering strategies.
// Render returns the frame as lines; the display decides how to put them on screen.
type LayoutStrategy interface {
	Render(board *model.Board, param model.LayoutParam) []string
	GetName() string
}

// GetLayoutStrategy returns the appropriate layout strategy based on the style
func GetLayoutStrategy(layoutStyle int) LayoutStrategy {
	strategies := map[int]LayoutStrategy{
		StyleFull:    &FullLayoutStrategy{},
		StyleMinimal: &MinimalLayoutStrategy{},
	}

	if strategy, exists := strategies[layoutStyle]; exists {
		return strategy
	}

	// Default to full dashboard if invalid style
	return &FullLayoutStrategy{}
}

// NextStyle cycles through the available layout styles
func NextStyle(layoutStyle int) int {
	if layoutStyle == StyleFull {
		return StyleMinimal
	}
	return StyleFull
}
