package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/srg/bleterm/internal/radio"
)

func TestTerminalDisplay_LineFormats(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	out := &bytes.Buffer{}
	d := newTerminalDisplay(out)

	d.Devicef(1, -48, "Polar H10")
	d.Servicef(2, "Heart Rate")
	d.Characteristicf(1, "Heart Rate Measurement", radio.CharProps{Read: true, Notify: true})
	d.Incoming("0aff")
	d.Noticef("scanning for devices...")
	d.Errorf("device index %d out of range [1, %d]", 9, 2)

	assert.Equal(t,
		"1: [-48] Polar H10\n"+
			"2: Heart Rate\n"+
			"1: Heart Rate Measurement (read,notify)\n"+
			"<- 0aff\n"+
			"scanning for devices...\n"+
			"device index 9 out of range [1, 2]\n",
		out.String())
}

func TestFormatUserError(t *testing.T) {
	assert.Contains(t, FormatUserError(radio.ErrBluetoothOff), "Bluetooth is turned off")
	assert.Equal(t, "boom", FormatUserError(errors.New("boom")))
}
