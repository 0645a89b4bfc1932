package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/srg/bleterm/internal/radio"
)

// incomingPrefix marks decoded inbound values apart from every other line.
const incomingPrefix = "<- "

// terminalDisplay implements session.Display on a terminal writer. Content
// and ordering come from the session; this type owns formatting only.
type terminalDisplay struct {
	out io.Writer

	incoming *color.Color
	notice   *color.Color
	errline  *color.Color
}

func newTerminalDisplay(out io.Writer) *terminalDisplay {
	return &terminalDisplay{
		out:      out,
		incoming: color.New(color.FgCyan),
		notice:   color.New(color.Faint),
		errline:  color.New(color.FgRed),
	}
}

func (d *terminalDisplay) Devicef(index int, rssi int, label string) {
	fmt.Fprintf(d.out, "%d: [%d] %s\n", index, rssi, label)
}

func (d *terminalDisplay) Servicef(index int, desc string) {
	fmt.Fprintf(d.out, "%d: %s\n", index, desc)
}

func (d *terminalDisplay) Characteristicf(index int, desc string, props radio.CharProps) {
	fmt.Fprintf(d.out, "%d: %s (%s)\n", index, desc, props)
}

func (d *terminalDisplay) Incoming(text string) {
	d.incoming.Fprintf(d.out, "%s%s\n", incomingPrefix, text)
}

func (d *terminalDisplay) Noticef(format string, args ...interface{}) {
	d.notice.Fprintf(d.out, format+"\n", args...)
}

func (d *terminalDisplay) Errorf(format string, args ...interface{}) {
	d.errline.Fprintf(d.out, format+"\n", args...)
}
