package layout

import (
	"strings"

	"github.com/penwyp/go-phase-monitor/internal/core/model"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

// MinimalLayoutStrategy implements the single-line layout
type MinimalLayoutStrategy struct {
	BaseStrategy
}

func (s *MinimalLayoutStrategy) GetName() string {
	return "Minimal"
}

func (s *MinimalLayoutStrategy) Render(board *model.Board, param model.LayoutParam) []string {
	station, ok := board.Station()
	if !ok {
		return []string{"no station selected"}
	}

	parts := []string{util.Colorize(util.ColorBold, string(station))}
	for _, r := range board.Rows {
		dot, _ := s.Dot(r.Active)
		parts = append(parts, dot+" "+PhaseLabel(r.Phase)+" "+r.Text)
	}

	health, _ := s.HealthText(board.Health)
	parts = append(parts, health)

	return []string{strings.Join(parts, " | ")}
}
