package testutils

import (
	"fmt"
	"strings"
	"sync"

	"github.com/srg/bleterm/internal/radio"
)

// RecordingDisplay captures everything the session presents, one line per
// call, in a stable textual form tests can assert against.
type RecordingDisplay struct {
	mu    sync.Mutex
	lines []string
}

func NewRecordingDisplay() *RecordingDisplay {
	return &RecordingDisplay{}
}

func (d *RecordingDisplay) add(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = append(d.lines, line)
}

// Lines returns a copy of all captured lines in order.
func (d *RecordingDisplay) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lines...)
}

// Clear empties the captured lines.
func (d *RecordingDisplay) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = nil
}

// Contains reports whether any captured line contains the substring.
func (d *RecordingDisplay) Contains(substr string) bool {
	for _, l := range d.Lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func (d *RecordingDisplay) Devicef(index int, rssi int, label string) {
	d.add(fmt.Sprintf("%d: [%d] %s", index, rssi, label))
}

func (d *RecordingDisplay) Servicef(index int, desc string) {
	d.add(fmt.Sprintf("%d: %s", index, desc))
}

func (d *RecordingDisplay) Characteristicf(index int, desc string, props radio.CharProps) {
	d.add(fmt.Sprintf("%d: %s (%s)", index, desc, props))
}

func (d *RecordingDisplay) Incoming(text string) {
	d.add("<- " + text)
}

func (d *RecordingDisplay) Noticef(format string, args ...interface{}) {
	d.add("note: " + fmt.Sprintf(format, args...))
}

func (d *RecordingDisplay) Errorf(format string, args ...interface{}) {
	d.add("error: " + fmt.Sprintf(format, args...))
}
