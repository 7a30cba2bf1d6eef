package layout

import (
	"github.com/penwyp/go-phase-monitor/internal/core/model"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

const helpHint = "←/→ switch  1-9 jump  t layout  ? help  q quit"

var helpLines = []string{
	"←/→ or h/l   switch station tab",
	"1-9          jump to station tab",
	"t            toggle full / minimal layout",
	"?            show or hide this help",
	"q/Esc/Ctrl+C quit",
}

// FullLayoutStrategy draws the boxed console with tab header, phase rows and status line
type FullLayoutStrategy struct {
	BaseStrategy
}

func (s *FullLayoutStrategy) GetName() string {
	return "Full Dashboard"
}

func (s *FullLayoutStrategy) Render(board *model.Board, param model.LayoutParam) []string {
	width := s.Width(param)
	lines := make([]string, 0, 16)

	lines = append(lines, s.Border("╭", "╮", width))
	title := "Phase Monitor"
	lines = append(lines, s.SplitLine(util.Colorize(util.ColorBold+util.ColorCyan, title), title, board.Server, board.Server, width))
	lines = append(lines, s.Border("├", "┤", width))

	tabsColored, tabsPlain := s.TabText(board)
	lines = append(lines, s.BoxLine(tabsColored, tabsPlain, width))
	lines = append(lines, s.Border("├", "┤", width))

	if param.ShowHelp {
		for _, h := range helpLines {
			lines = append(lines, s.BoxLine(h, h, width))
		}
	} else {
		lines = append(lines, s.phaseRows(board, width)...)
	}

	lines = append(lines, s.Border("├", "┤", width))
	healthColored, healthPlain := s.HealthText(board.Health)
	lines = append(lines, s.BoxLine(healthColored, healthPlain, width))
	lines = append(lines, s.Border("╰", "╯", width))
	lines = append(lines, util.Colorize(util.ColorDim, " "+helpHint))

	return lines
}

func (s *FullLayoutStrategy) phaseRows(board *model.Board, width int) []string {
	if _, ok := board.Station(); !ok {
		msg := "select a station to see its phases"
		return []string{s.BoxLine(util.Colorize(util.ColorDim, msg), msg, width)}
	}

	rows := make([]string, 0, len(board.Rows))
	for _, r := range board.Rows {
		dotColored, dotPlain := s.Dot(r.Active)
		label := PhaseLabel(r.Phase)
		text := r.Text
		if r.Active {
			text = util.Colorize(util.ColorBold, r.Text)
		}
		rows = append(rows, s.SplitLine(
			dotColored+" "+label, dotPlain+" "+label,
			text, r.Text,
			width,
		))
	}
	return rows
}
