//go:build darwin

package interaction

import "golang.org/x/sys/unix"

// enableRawMode sets the terminal to raw mode on Darwin/macOS
func (kr *KeyboardReader) enableRawMode() error {
	return setRawMode(kr, unix.TIOCGETA, unix.TIOCSETA)
}
