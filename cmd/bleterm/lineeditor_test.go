package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/ergochat/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/bleterm/internal/session"
)

// newReadlineEditorOver builds a readline-backed editor reading from the
// given input, with the terminal plumbing stubbed out so keystroke handling
// runs exactly as it does on a live TTY.
func newReadlineEditorOver(t *testing.T, input string) *LineEditor {
	t.Helper()

	le, err := newReadlineEditor(&readline.Config{
		Stdin:          strings.NewReader(input),
		Stdout:         io.Discard,
		Stderr:         io.Discard,
		HistoryLimit:   -1,
		FuncIsTerminal: func() bool { return false },
		FuncMakeRaw:    func() error { return nil },
		FuncExitRaw:    func() error { return nil },
		FuncGetSize:    func() (int, int) { return 80, 24 },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = le.Close() })
	return le
}

func TestLineEditor_ReadlineDeliversRefreshControl(t *testing.T) {
	// GOAL: Verify the refresh control byte comes back as a line from the
	// readline editor instead of being consumed by the history-search
	// binding that readline attaches to rune 0x12
	le := newReadlineEditorOver(t, string(rune(session.ControlRefresh)))

	line, err := le.GetLine("> ")
	require.NoError(t, err)
	assert.Equal(t, string(rune(session.ControlRefresh)), line,
		"the refresh byte MUST reach the caller as the line")
}

func TestLineEditor_ReadlineControlDiscardsTypedPrefix(t *testing.T) {
	// GOAL: Verify a control keypress completes the read on its own, even
	// mid-line: the control is first-byte-significant downstream, so any
	// typed prefix is dropped rather than prepended
	le := newReadlineEditorOver(t, "12"+string(rune(session.ControlUnwind)))

	line, err := le.GetLine("> ")
	require.NoError(t, err)
	assert.Equal(t, string(rune(session.ControlUnwind)), line)

	_, err = le.GetLine("> ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineEditor_ReadlinePlainLine(t *testing.T) {
	le := newReadlineEditorOver(t, "hello\n")

	line, err := le.GetLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", line)
}

func TestLineEditor_PipedMode(t *testing.T) {
	// GOAL: Verify piped input is read line by line with the prompt echoed
	// and control bytes passed through untouched
	in := strings.NewReader("1\n" + string(rune(session.ControlUnwind)) + "\nhello\n")
	out := &bytes.Buffer{}
	le := newPipedLineEditor(in, out)

	line, err := le.GetLine("scan> ")
	require.NoError(t, err)
	assert.Equal(t, "1", line)
	assert.Equal(t, "scan> ", out.String(), "prompt MUST be echoed before reading")

	line, err = le.GetLine("> ")
	require.NoError(t, err)
	assert.Equal(t, string(rune(session.ControlUnwind)), line, "control bytes MUST survive line reading")

	line, err = le.GetLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	_, err = le.GetLine("> ")
	assert.ErrorIs(t, err, io.EOF, "exhausted input MUST yield io.EOF")
}

func TestLineEditor_OverPTY(t *testing.T) {
	// GOAL: Verify line reading works over a real terminal device
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	le := newPipedLineEditor(slave, io.Discard)

	go func() {
		_, _ = master.WriteString("42\r\n")
	}()

	line, err := le.GetLine("scan> ")
	require.NoError(t, err)
	assert.Equal(t, "42", strings.TrimRight(line, "\r"))
}

func TestLineEditor_CloseWithoutReadlineIsNil(t *testing.T) {
	le := newPipedLineEditor(strings.NewReader(""), io.Discard)
	assert.NoError(t, le.Close())
}
