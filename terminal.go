package linedit

import (
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-tty"
	"golang.org/x/term"
)

// WindowSize is a terminal-size notification.
type WindowSize struct {
	Width  int
	Height int
}

// terminalInterface abstracts terminal operations for testability and
// cross-platform support.
//
// Implementations:
//   - realTerminal: go-tty backed, for production use
//   - mockTerminal: scripted input and captured output, for tests
type terminalInterface interface {
	SetRaw() error                        // Enter raw mode for immediate key processing
	Restore() error                       // Restore original terminal settings
	Size() (width, height int, err error) // Terminal dimensions with safe fallbacks
	ReadRune() (rune, int, error)         // Read a single Unicode character from input
	Buffered() bool                       // Whether more input is immediately available
	Resize() <-chan WindowSize            // Size-change notifications
	IsInteractive() bool                  // Whether attached to an interactive device
	WrapKind() WrapKind                   // Auto-wrap behavior of the attached terminal
	Output() io.Writer                    // Color-capable output writer
	Close() error                         // Clean up resources and prevent fd leaks
}

// realTerminal implements terminalInterface using go-tty for
// cross-platform terminal handling and go-colorable for Windows ANSI
// support.
//
//   - Double-close protection: the closed flag prevents Windows panics
//     on a second Close()
//   - Safe size fallbacks: returns 80x24 if size detection fails
//   - Raw-mode state is captured with golang.org/x/term so the terminal
//     is restored even after Ctrl-C
type realTerminal struct {
	tty           *tty.TTY
	output        io.Writer
	closed        bool
	stdinFd       int
	originalState *term.State
	resizeCh      chan WindowSize
}

func newRealTerminal() (*realTerminal, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}

	var output io.Writer = os.Stdout
	if runtime.GOOS == "windows" {
		// Use colorable for Windows ANSI color support
		output = colorable.NewColorableStdout()
	}

	return &realTerminal{
		tty:     t,
		output:  output,
		stdinFd: int(os.Stdin.Fd()),
	}, nil
}

func (t *realTerminal) SetRaw() error {
	// Capture current terminal state before entering raw mode so every
	// enter/exit cycle restores from a fresh baseline.
	if term.IsTerminal(t.stdinFd) {
		state, err := term.GetState(t.stdinFd)
		if err != nil {
			return err
		}
		t.originalState = state

		if _, err := term.MakeRaw(t.stdinFd); err != nil {
			return err
		}
	}
	return nil
}

func (t *realTerminal) Restore() error {
	if t.originalState != nil && term.IsTerminal(t.stdinFd) {
		err := term.Restore(t.stdinFd, t.originalState)
		t.originalState = nil
		return err
	}
	return nil
}

func (t *realTerminal) Size() (width, height int, err error) {
	w, h, err := t.tty.Size()
	if err != nil || w <= 0 || h <= 0 {
		// Safe fallback to prevent divide by zero
		return 80, 24, err
	}
	return w, h, nil
}

func (t *realTerminal) ReadRune() (rune, int, error) {
	r, err := t.tty.ReadRune()
	if err != nil {
		return 0, 0, err
	}
	return r, 1, nil
}

func (t *realTerminal) Buffered() bool {
	return t.tty.Buffered()
}

func (t *realTerminal) Resize() <-chan WindowSize {
	if t.resizeCh == nil {
		t.resizeCh = make(chan WindowSize, 1)
		go func() {
			for ws := range t.tty.SIGWINCH() {
				select {
				case t.resizeCh <- WindowSize{Width: ws.W, Height: ws.H}:
				default:
					// A pending notification is stale; replace it.
					select {
					case <-t.resizeCh:
					default:
					}
					t.resizeCh <- WindowSize{Width: ws.W, Height: ws.H}
				}
			}
		}()
	}
	return t.resizeCh
}

func (t *realTerminal) IsInteractive() bool {
	return term.IsTerminal(t.stdinFd)
}

func (t *realTerminal) WrapKind() WrapKind {
	if runtime.GOOS == "windows" {
		return WrapWindows
	}
	return WrapUnix
}

func (t *realTerminal) Output() io.Writer {
	return t.output
}

func (t *realTerminal) Close() error {
	// Prevent double-close which causes panic on Windows
	if t.closed {
		return nil
	}
	if t.tty != nil {
		err := t.tty.Close()
		t.closed = true
		return err
	}
	return nil
}
