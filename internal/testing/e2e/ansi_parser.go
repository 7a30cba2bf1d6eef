package e2e

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiEscape = regexp.MustCompile(`\x1b(\[\??[0-9;]*[a-zA-Z]|O[A-Z])`)

// StripANSI removes escape sequences from s
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// cell is one screen position. Wide runes occupy their cell plus a filler cell with r == 0.
type cell struct {
	r       rune
	inverse bool
}

var blank = cell{r: ' '}

// TerminalScreen is a virtual screen that replays the console's output: cursor moves,
// erases, line feeds and the inverse-video attribute used for the active tab.
type TerminalScreen struct {
	rows, cols int
	grid       [][]cell
	x, y       int
	inverse    bool
}

// NewTerminalScreen creates a blank rows x cols screen
func NewTerminalScreen(rows, cols int) *TerminalScreen {
	s := &TerminalScreen{rows: rows, cols: cols, grid: make([][]cell, rows)}
	for i := range s.grid {
		s.grid[i] = blankRow(cols)
	}
	return s
}

// ParseTerminalOutput replays output on a 24x80 screen
func ParseTerminalOutput(output string) *TerminalScreen {
	s := NewTerminalScreen(24, 80)
	s.Feed(output)
	return s
}

func blankRow(cols int) []cell {
	row := make([]cell, cols)
	for i := range row {
		row[i] = blank
	}
	return row
}

// Feed replays output onto the screen
func (s *TerminalScreen) Feed(output string) {
	runes := []rune(output)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[':
			i = s.csi(runes, i+2)
		case r == '\r':
			s.x = 0
		case r == '\n':
			s.lineFeed()
		case r == '\b':
			s.x = max(0, s.x-1)
		case r < ' ':
		default:
			s.put(r)
		}
	}
}

// csi consumes one control sequence starting after "ESC [" and returns the index of its final byte
func (s *TerminalScreen) csi(runes []rune, i int) int {
	private := i < len(runes) && runes[i] == '?'
	if private {
		i++
	}

	var params []int
	n := 0
	for ; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9':
			n = n*10 + int(r-'0')
		case r == ';':
			params = append(params, n)
			n = 0
		default:
			params = append(params, n)
			if !private {
				s.apply(r, params)
			}
			return i
		}
	}
	return i
}

// arg returns params[idx], or def when it is absent or zero
func arg(params []int, idx, def int) int {
	if idx < len(params) && params[idx] > 0 {
		return params[idx]
	}
	return def
}

func (s *TerminalScreen) apply(cmd rune, params []int) {
	switch cmd {
	case 'H', 'f':
		s.y = min(s.rows-1, arg(params, 0, 1)-1)
		s.x = min(s.cols-1, arg(params, 1, 1)-1)
	case 'A':
		s.y = max(0, s.y-arg(params, 0, 1))
	case 'B':
		s.y = min(s.rows-1, s.y+arg(params, 0, 1))
	case 'C':
		s.x = min(s.cols-1, s.x+arg(params, 0, 1))
	case 'D':
		s.x = max(0, s.x-arg(params, 0, 1))
	case 'J':
		s.eraseDisplay(params[0])
	case 'K':
		s.eraseLine(s.y, params[0])
	case 'm':
		for _, p := range params {
			switch p {
			case 0:
				s.inverse = false
			case 7:
				s.inverse = true
			case 27:
				s.inverse = false
			}
		}
	}
}

// eraseLine clears part of row: 0 cursor to end, 1 start to cursor, 2 whole row
func (s *TerminalScreen) eraseLine(row, mode int) {
	from, to := 0, s.cols
	switch mode {
	case 0:
		from = s.x
	case 1:
		to = min(s.cols, s.x+1)
	}
	for j := from; j < to; j++ {
		s.grid[row][j] = blank
	}
}

// eraseDisplay clears part of the screen with the same modes as eraseLine
func (s *TerminalScreen) eraseDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseLine(s.y, 0)
		for i := s.y + 1; i < s.rows; i++ {
			s.grid[i] = blankRow(s.cols)
		}
	case 1:
		for i := 0; i < s.y; i++ {
			s.grid[i] = blankRow(s.cols)
		}
		s.eraseLine(s.y, 1)
	default:
		for i := range s.grid {
			s.grid[i] = blankRow(s.cols)
		}
	}
}

func (s *TerminalScreen) lineFeed() {
	s.x = 0
	if s.y < s.rows-1 {
		s.y++
		return
	}
	copy(s.grid, s.grid[1:])
	s.grid[s.rows-1] = blankRow(s.cols)
}

func (s *TerminalScreen) put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	if s.x+w > s.cols {
		s.lineFeed()
	}
	s.grid[s.y][s.x] = cell{r: r, inverse: s.inverse}
	if w == 2 {
		s.grid[s.y][s.x+1] = cell{inverse: s.inverse}
	}
	s.x += w
	if s.x >= s.cols {
		s.lineFeed()
	}
}

// GetLine returns row line with trailing blanks trimmed
func (s *TerminalScreen) GetLine(line int) string {
	if line < 0 || line >= s.rows {
		return ""
	}
	var b strings.Builder
	for _, c := range s.grid[line] {
		if c.r != 0 {
			b.WriteRune(c.r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Lines returns every row with trailing blanks trimmed
func (s *TerminalScreen) Lines() []string {
	lines := make([]string, s.rows)
	for i := range lines {
		lines[i] = s.GetLine(i)
	}
	return lines
}

// Render returns the whole screen, one row per line
func (s *TerminalScreen) Render() string {
	return strings.Join(s.Lines(), "\n")
}

// ContainsText reports whether text appears on any row
func (s *TerminalScreen) ContainsText(text string) bool {
	for _, line := range s.Lines() {
		if strings.Contains(line, text) {
			return true
		}
	}
	return false
}

// InverseText returns the runs of inverse-video text on the screen, trimmed
func (s *TerminalScreen) InverseText() []string {
	var runs []string
	for _, row := range s.grid {
		var b strings.Builder
		flush := func() {
			if t := strings.TrimSpace(b.String()); t != "" {
				runs = append(runs, t)
			}
			b.Reset()
		}
		for _, c := range row {
			if !c.inverse {
				flush()
				continue
			}
			if c.r != 0 {
				b.WriteRune(c.r)
			}
		}
		flush()
	}
	return runs
}
