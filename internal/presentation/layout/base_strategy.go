package layout

import (
	"strings"

	"github.com/penwyp/go-phase-monitor/internal/core/model"
	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

const (
	dotActive = "●"
	dotIdle   = "○"
)

var phaseLabels = map[phase.PhaseID]string{
	phase.StartTime:   "Start time",
	phase.StationTime: "Station time",
	phase.WorkTime:    "Work time",
	phase.Return:      "Return",
}

// PhaseLabel returns the operator-facing name of a phase
func PhaseLabel(id phase.PhaseID) string {
	if label, ok := phaseLabels[id]; ok {
		return label
	}
	return string(id)
}

// BaseStrategy provides common functionality for all layout strategies
type BaseStrategy struct {
}

// GetSizer returns the shared sizer instance
func (b *BaseStrategy) GetSizer() *Sizer {
	return sharedSizer
}

// Width resolves the frame width, measuring the terminal when none is given
func (b *BaseStrategy) Width(param model.LayoutParam) int {
	if param.Width > 0 {
		return ClampWidth(param.Width)
	}
	return b.GetSizer().GetMaxWidth()
}

// Dot returns the colored activity indicator and its plain form
func (b *BaseStrategy) Dot(active bool) (colored, plain string) {
	if active {
		return util.Colorize(util.ColorGreen, dotActive), dotActive
	}
	return util.Colorize(util.ColorDim, dotIdle), dotIdle
}

// HealthText describes the latest poll in one short phrase
func (b *BaseStrategy) HealthText(h model.PollHealth) (colored, plain string) {
	switch {
	case !h.Polled():
		plain = "waiting for first poll"
		return util.Colorize(util.ColorYellow, plain), plain
	case h.Healthy():
		plain = "last poll " + util.GetTimeProvider().Clock(h.LastSuccess)
		return util.Colorize(util.ColorGreen, plain), plain
	default:
		plain = "poll failed: " + h.LastError
		return util.Colorize(util.ColorRed, plain), plain
	}
}

// TabText renders the tab header. The active tab is shown inverted and numbered.
func (b *BaseStrategy) TabText(board *model.Board) (colored, plain string) {
	if len(board.Tabs) == 0 {
		plain = "no stations configured"
		return util.Colorize(util.ColorDim, plain), plain
	}

	var c, p strings.Builder
	for i, tab := range board.Tabs {
		if i > 0 {
			c.WriteString(" ")
			p.WriteString(" ")
		}
		cell := " " + string(rune('1'+i)) + " " + string(tab) + " "
		p.WriteString(cell)
		if i == board.Active {
			c.WriteString(util.ColorInverse + util.ColorBold + cell + util.ColorReset)
		} else {
			c.WriteString(cell)
		}
	}
	return c.String(), p.String()
}

// BoxLine fits colored content into a bordered line of width, padding by the plain form
func (b *BaseStrategy) BoxLine(colored, plain string, width int) string {
	inner := width - 4
	if util.GetDisplayWidth(plain) > inner {
		// Colors are dropped when the content has to be cut
		colored = util.Truncate(plain, inner)
		plain = colored
	}
	pad := inner - util.GetDisplayWidth(plain)
	if pad < 0 {
		pad = 0
	}
	return "│ " + colored + strings.Repeat(" ", pad) + " │"
}

// SplitLine places left and right content on one bordered line
func (b *BaseStrategy) SplitLine(leftColored, leftPlain, rightColored, rightPlain string, width int) string {
	inner := width - 4
	gap := inner - util.GetDisplayWidth(leftPlain) - util.GetDisplayWidth(rightPlain)
	if gap < 1 {
		return b.BoxLine(leftColored+" "+rightColored, leftPlain+" "+rightPlain, width)
	}
	return b.BoxLine(leftColored+strings.Repeat(" ", gap)+rightColored, leftPlain+strings.Repeat(" ", gap)+rightPlain, width)
}

// Border returns a horizontal border with the given corner runes
func (b *BaseStrategy) Border(left, right string, width int) string {
	return left + strings.Repeat("─", width-2) + right
}
