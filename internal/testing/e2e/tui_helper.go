package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// TUITestSession drives a console binary through a pseudo terminal
type TUITestSession struct {
	cmd        *exec.Cmd
	ptmx       *os.File
	rows, cols int
	output     bytes.Buffer
	outputLock sync.RWMutex
	cancel     context.CancelFunc
	done       chan struct{}
	stopOnce   sync.Once
	waitErr    error
}

// TUITestConfig contains configuration for TUI testing
type TUITestConfig struct {
	// Command and arguments to run
	Command string
	Args    []string

	// Environment variables appended to the current environment
	Env []string

	// Terminal size
	Rows uint16
	Cols uint16

	// Timeout for the entire session
	Timeout time.Duration
}

// NewTUITestSession starts the command on a fresh PTY
func NewTUITestSession(config *TUITestConfig) (*TUITestSession, error) {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Rows == 0 {
		config.Rows = 24
	}
	if config.Cols == 0 {
		config.Cols = 80
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Env = append(os.Environ(), config.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: config.Rows,
		Cols: config.Cols,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s := &TUITestSession{
		cmd:    cmd,
		ptmx:   ptmx,
		rows:   int(config.Rows),
		cols:   int(config.Cols),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go s.captureOutput()
	go func() {
		s.waitErr = cmd.Wait()
		close(s.done)
	}()

	return s, nil
}

// captureOutput copies PTY output until the terminal closes
func (s *TUITestSession) captureOutput() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.outputLock.Lock()
			s.output.Write(buf[:n])
			s.outputLock.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendString types str into the console
func (s *TUITestSession) SendString(str string) error {
	if s.Exited() {
		return fmt.Errorf("session not running")
	}
	_, err := s.ptmx.Write([]byte(str))
	return err
}

// GetOutput returns everything written so far, escape codes included
func (s *TUITestSession) GetOutput() string {
	s.outputLock.RLock()
	defer s.outputLock.RUnlock()
	return s.output.String()
}

// Screenshot replays the output on a virtual screen of the session's size
func (s *TUITestSession) Screenshot() *TerminalScreen {
	screen := NewTerminalScreen(s.rows, s.cols)
	screen.Feed(s.GetOutput())
	return screen
}

// WaitForScreen waits until the visible screen contains text
func (s *TUITestSession) WaitForScreen(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.Screenshot().ContainsText(text) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %q, screen:\n%s", text, s.Screenshot().Render())
}

// WaitForOutput waits until the raw output, stripped of escape codes, contains text
func (s *TUITestSession) WaitForOutput(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(StripANSI(s.GetOutput()), text) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for output %q", text)
}

// Exited reports whether the process has ended
func (s *TUITestSession) Exited() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// WaitExit waits for the process to end on its own
func (s *TUITestSession) WaitExit(timeout time.Duration) error {
	select {
	case <-s.done:
		return s.waitErr
	case <-time.After(timeout):
		return fmt.Errorf("process still running after %s", timeout)
	}
}

// Stop asks the console to quit with 'q' and kills it if it does not
func (s *TUITestSession) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		_ = s.SendString("q")
		err = s.WaitExit(2 * time.Second)
		if !s.Exited() {
			s.cancel()
			<-s.done
		}
		s.cancel()
		_ = s.ptmx.Close()
	})
	return err
}
