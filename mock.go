package linedit

import (
	"io"
)

// mockTerminal is a terminal double fed from a scripted rune sequence.
// Reads past the end of the script return io.EOF, which ends a session
// the same way a closed input stream does.
type mockTerminal struct {
	input       []rune
	pos         int
	output      io.Writer
	width       int
	height      int
	wrap        WrapKind
	interactive bool
	raw         bool
	closed      bool
	resizeCh    chan WindowSize
	hold        chan struct{} // when set, reads past the script block until closed
}

func newMockTerminal(input string, output io.Writer) *mockTerminal {
	return &mockTerminal{
		input:       []rune(input),
		output:      output,
		width:       80,
		height:      24,
		wrap:        WrapUnix,
		interactive: true,
		resizeCh:    make(chan WindowSize, 1),
	}
}

func (m *mockTerminal) SetRaw() error {
	m.raw = true
	return nil
}

func (m *mockTerminal) Restore() error {
	m.raw = false
	return nil
}

func (m *mockTerminal) Size() (int, int, error) {
	return m.width, m.height, nil
}

func (m *mockTerminal) ReadRune() (rune, int, error) {
	if m.pos >= len(m.input) {
		if m.hold != nil {
			<-m.hold
		}
		return 0, 0, io.EOF
	}
	r := m.input[m.pos]
	m.pos++
	return r, len(string(r)), nil
}

func (m *mockTerminal) Buffered() bool {
	return m.pos < len(m.input)
}

func (m *mockTerminal) Resize() <-chan WindowSize {
	return m.resizeCh
}

func (m *mockTerminal) IsInteractive() bool {
	return m.interactive
}

func (m *mockTerminal) WrapKind() WrapKind {
	return m.wrap
}

func (m *mockTerminal) Output() io.Writer {
	return m.output
}

func (m *mockTerminal) Close() error {
	m.closed = true
	return nil
}

// resize delivers a window size change to a running session.
func (m *mockTerminal) resize(width, height int) {
	m.width, m.height = width, height
	m.resizeCh <- WindowSize{Width: width, Height: height}
}
