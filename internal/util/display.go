package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
	ColorInverse = "\033[7m"

	ClearScreen    = "\033[2J"     // Clear entire screen
	ClearLineToEnd = "\033[0K"     // Clear from cursor to end of line
	ClearBelow     = "\033[0J"     // Clear from cursor to end of screen
	MoveCursorHome = "\033[H"      // Move cursor to home position
	HideCursor     = "\033[?25l"   // Hide cursor
	ShowCursor     = "\033[?25h"   // Show cursor
	EnterAltScreen = "\033[?1049h" // Switch to alternate screen buffer
	ExitAltScreen  = "\033[?1049l" // Return to normal screen buffer
)

// GetDisplayWidth calculates the display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadRight pads text with spaces up to width display columns
func PadRight(text string, width int) string {
	w := GetDisplayWidth(text)
	if w >= width {
		return text
	}
	return text + strings.Repeat(" ", width-w)
}

// PadLeft right-aligns text within width display columns
func PadLeft(text string, width int) string {
	w := GetDisplayWidth(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", width-w) + text
}

// Truncate shortens text to at most width display columns, marking the cut with "…"
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "…")
}

// Colorize wraps text in a color sequence
func Colorize(color, text string) string {
	return fmt.Sprintf("%s%s%s", color, text, ColorReset)
}
