package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"

	"github.com/srg/bleterm/internal/session"
)

const historyLimit = 500

// LineEditor provides one-line-per-call input with two modes: a readline
// instance with history when stdin is a TTY, and a plain scanner when input
// is piped. The reserved control bytes reach the caller in both modes; in
// readline mode they are intercepted before readline's own key bindings
// (0x12 is bound to history search there) and submitted as their own line.
type LineEditor struct {
	interactive bool
	rl          *readline.Instance
	scanner     *bufio.Scanner
	out         io.Writer

	// Control byte captured by the input filter during the current Readline
	// call. Filter and GetLine run on the same goroutine.
	pendingControl rune
}

// NewLineEditor selects the input mode for os.Stdin.
func NewLineEditor(historyPath string) *LineEditor {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return newPipedLineEditor(os.Stdin, os.Stdout)
	}

	le, err := newReadlineEditor(&readline.Config{
		HistoryFile:            historyPath,
		HistoryLimit:           historyLimit,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newPipedLineEditor(os.Stdin, os.Stdout)
	}
	return le
}

// newReadlineEditor builds the readline-backed editor, wiring the control
// byte filter into the given config.
func newReadlineEditor(cfg *readline.Config) (*LineEditor, error) {
	le := &LineEditor{interactive: true}
	cfg.FuncFilterInputRune = le.filterInputRune

	rl, err := readline.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	le.rl = rl
	return le, nil
}

// filterInputRune keeps the reserved control bytes away from readline's key
// bindings: rune 0x12 would otherwise enter history search and never leave
// Readline. A control keypress completes the read immediately; any text
// typed before it is discarded in GetLine.
func (le *LineEditor) filterInputRune(r rune) (rune, bool) {
	switch r {
	case session.ControlUnwind, session.ControlRefresh:
		le.pendingControl = r
		return readline.CharEnter, true
	}
	return r, true
}

// newPipedLineEditor reads lines from in and echoes prompts to out.
func newPipedLineEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// GetLine reads one line of input. Returns io.EOF when input is exhausted or
// the user interrupts.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if !le.interactive {
		fmt.Fprint(le.out, prompt)
		if !le.scanner.Scan() {
			if err := le.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return le.scanner.Text(), nil
	}

	le.rl.SetPrompt(prompt)
	line, err := le.rl.Readline()
	if ctrl := le.pendingControl; ctrl != 0 {
		le.pendingControl = 0
		return string(ctrl), nil
	}
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

// Close releases the readline instance, flushing history to disk.
func (le *LineEditor) Close() error {
	if le.rl != nil {
		return le.rl.Close()
	}
	return nil
}
