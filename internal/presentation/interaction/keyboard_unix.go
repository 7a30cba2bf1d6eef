//go:build darwin || linux

package interaction

import (
	"os"

	"golang.org/x/sys/unix"
)

func setRawMode(kr *KeyboardReader, getReq uint, setReq uint) error {
	fd := int(os.Stdin.Fd())

	oldState, err := unix.IoctlGetTermios(fd, getReq)
	if err != nil {
		return err
	}

	newState := *oldState
	newState.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	// Keep ISIG enabled to allow Ctrl+C handling
	newState.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	newState.Cflag |= unix.CS8
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, setReq, &newState); err != nil {
		return err
	}

	kr.restore = func() error {
		return unix.IoctlSetTermios(fd, setReq, oldState)
	}
	return nil
}
