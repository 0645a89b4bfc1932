package main

import (
	"errors"

	"github.com/srg/bleterm/internal/radio"
)

// FormatUserError turns internal errors into a message fit for the terminal.
func FormatUserError(err error) string {
	switch {
	case errors.Is(err, radio.ErrBluetoothOff):
		return "Bluetooth is turned off or unavailable - turn it on and try again"
	case radio.IsConnectionState(err, radio.NotInitialized):
		return "BLE stack is not initialized - is a Bluetooth adapter present?"
	default:
		return err.Error()
	}
}
