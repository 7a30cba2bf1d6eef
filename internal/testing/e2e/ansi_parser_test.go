package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[?25l\x1b[1;1H\x1b[7m\x1b[1m 1 Press \x1b[0m 2 Weld\x1b[K"
	assert.Equal(t, " 1 Press  2 Weld", StripANSI(in))
}

func TestFeedCursorAndErase(t *testing.T) {
	s := NewTerminalScreen(4, 20)
	s.Feed("\x1b[2J\x1b[1;1Hfirst line\x1b[3;5Hthird")
	s.Feed("\x1b[1;6H\x1b[K")

	assert.Equal(t, "first", s.GetLine(0))
	assert.Equal(t, "", s.GetLine(1))
	assert.Equal(t, "    third", s.GetLine(2))

	s.Feed("\x1b[2;1H\x1b[J")
	assert.Equal(t, []string{"first", "", "", ""}, s.Lines())
}

func TestFeedScrollsAtBottom(t *testing.T) {
	s := NewTerminalScreen(2, 10)
	s.Feed("a\nb\nc")
	assert.Equal(t, "b\nc", s.Render())
}

func TestFeedWideRunes(t *testing.T) {
	s := NewTerminalScreen(1, 10)
	s.Feed("工位|● 1")
	assert.Equal(t, "工位|● 1", s.GetLine(0))
	assert.True(t, s.ContainsText("● 1"))
}

func TestInverseText(t *testing.T) {
	s := NewTerminalScreen(2, 40)
	s.Feed("\x1b[1;1H 1 Press \x1b[7m\x1b[1m 2 Weld \x1b[0m 3 Paint ")

	assert.Equal(t, []string{"2 Weld"}, s.InverseText())
}

func TestPrivateModesIgnored(t *testing.T) {
	s := ParseTerminalOutput("\x1b[?1049h\x1b[?25lhello\x1b[?25h")
	assert.Equal(t, "hello", s.GetLine(0))
}
