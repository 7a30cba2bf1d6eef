package layout

import (
	"os"

	"github.com/penwyp/go-phase-monitor/internal/util"
	"golang.org/x/term"
)

const (
	DefaultWidth = 60
	MinWidth     = 40
	MaxWidth     = 100
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{fd: int(os.Stdout.Fd())}

// Sizer measures the terminal
type Sizer struct {
	fd int
}

// GetMaxWidth returns the frame width for the current terminal
func (i Sizer) GetMaxWidth() int {
	termWidth, _, err := term.GetSize(i.fd)
	if err != nil {
		return DefaultWidth
	}
	return ClampWidth(termWidth - 2)
}

// ClampWidth keeps a frame width inside the supported range
func ClampWidth(width int) int {
	if width < MinWidth {
		if width <= 0 {
			util.LogDebugf("ClampWidth: invalid width %d, using default", width)
			return DefaultWidth
		}
		return MinWidth
	}
	if width > MaxWidth {
		return MaxWidth
	}
	return width
}
