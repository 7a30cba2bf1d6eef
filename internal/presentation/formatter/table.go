package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

const (
	cellActive = "● active"
	cellIdle   = "○"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	headers := []string{"Station"}
	for _, id := range phase.All() {
		headers = append(headers, strings.TrimPrefix(string(id), "VAR_"))
	}
	headers = append(headers, "Active")
	return &TableFormatter{headers: headers}
}

func (f *TableFormatter) Format(w io.Writer, data []StationStatus) error {
	rows := make([][]string, 0, len(data))
	for _, s := range data {
		row := []string{s.Station}
		for _, id := range phase.All() {
			cell := cellIdle
			if s.Phases[string(id)] {
				cell = cellActive
			}
			row = append(row, cell)
		}
		row = append(row, fmt.Sprintf("%d/%d", s.ActiveCount(), phase.Count()))
		rows = append(rows, row)
	}

	widths := f.calculateColumnWidths(rows)

	var b strings.Builder
	f.printBorder(&b, widths, "top")
	f.printRow(&b, f.headers, widths)
	f.printBorder(&b, widths, "middle")
	for _, row := range rows {
		f.printRow(&b, row, widths)
	}
	if len(rows) == 0 {
		f.printRow(&b, append([]string{"(no stations)"}, make([]string, len(widths)-1)...), widths)
	}
	f.printBorder(&b, widths, "bottom")

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, h := range f.headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := util.GetDisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	if widths[0] < util.GetDisplayWidth("(no stations)") && len(rows) == 0 {
		widths[0] = util.GetDisplayWidth("(no stations)")
	}
	return widths
}

func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, position string) {
	left, mid, right := "┌", "┬", "┐"
	switch position {
	case "middle":
		left, mid, right = "├", "┼", "┤"
	case "bottom":
		left, mid, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			b.WriteString(mid)
		}
		b.WriteString(strings.Repeat("─", w+2))
	}
	b.WriteString(right + "\n")
}

func (f *TableFormatter) printRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("│")
	for i, w := range widths {
		b.WriteString(" " + util.PadRight(cells[i], w) + " │")
	}
	b.WriteString("\n")
}
