package interaction

import (
	"os"
)

// KeyboardReader handles keyboard input in raw mode
type KeyboardReader struct {
	restore func() error
	input   chan KeyEvent
	stop    chan struct{}
}

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyLeft
	KeyRight
)

const (
	keyCtrlC  = 3
	keyEscape = 27
)

// NewKeyboardReader puts stdin into raw mode and starts reading keys
func NewKeyboardReader() (*KeyboardReader, error) {
	kr := &KeyboardReader{
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}

	go kr.readInput()

	return kr, nil
}

// readInput reads keyboard input in a goroutine
func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 3)

	for {
		select {
		case <-kr.stop:
			return
		default:
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				continue
			}

			event := parseInput(buf[:n])
			if event != nil {
				select {
				case kr.input <- *event:
				case <-kr.stop:
					return
				}
			}
		}
	}
}

// parseInput turns one raw read into a key event. Unknown escape sequences yield nil.
func parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	if buf[0] == keyCtrlC {
		return &KeyEvent{Key: keyCtrlC, Type: KeyChar}
	}

	if buf[0] == keyEscape {
		if len(buf) == 1 {
			return &KeyEvent{Key: keyEscape, Type: KeyEscape}
		}
		if len(buf) >= 3 && (buf[1] == '[' || buf[1] == 'O') {
			switch buf[2] {
			case 'C':
				return &KeyEvent{Type: KeyRight}
			case 'D':
				return &KeyEvent{Type: KeyLeft}
			}
		}
		return nil
	}

	return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
}

// IsQuit reports whether the event asks the console to exit
func (e KeyEvent) IsQuit() bool {
	switch e.Type {
	case KeyEscape:
		return true
	case KeyChar:
		return e.Key == 'q' || e.Key == 'Q' || e.Key == keyCtrlC
	}
	return false
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops the keyboard reader and restores terminal
func (kr *KeyboardReader) Close() error {
	close(kr.stop)
	if kr.restore == nil {
		return nil
	}
	return kr.restore()
}

// ApplyKey moves the selector according to a navigation key and reports whether the
// visible tab may have changed
func ApplyKey(s *TabSelector, e KeyEvent) bool {
	switch e.Type {
	case KeyLeft:
		s.Prev()
		return true
	case KeyRight:
		s.Next()
		return true
	case KeyChar:
		switch {
		case e.Key == 'h':
			s.Prev()
			return true
		case e.Key == 'l':
			s.Next()
			return true
		case e.Key >= '1' && e.Key <= '9':
			return s.Activate(int(e.Key - '1'))
		}
	}
	return false
}
