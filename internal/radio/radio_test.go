package radio

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeError verifies platform-specific stack errors are mapped to
// the standard sentinel errors while unknown errors pass through untouched.
func TestNormalizeError(t *testing.T) {
	tests := []struct {
		name   string
		in     error
		expect error
	}{
		{
			name:   "darwin bluetooth off",
			in:     fmt.Errorf("central manager has invalid state: have=4 want=5: is Bluetooth turned on?"),
			expect: ErrBluetoothOff,
		},
		{
			name:   "generic bluetooth off",
			in:     fmt.Errorf("bluetooth is turned off"),
			expect: ErrBluetoothOff,
		},
		{
			name:   "not connected",
			in:     fmt.Errorf("can't read characteristic: device not connected"),
			expect: ErrNotConnected,
		},
		{
			name:   "already connected",
			in:     fmt.Errorf("device already connected"),
			expect: ErrAlreadyConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NormalizeError(tt.in)
			assert.ErrorIs(t, err, tt.expect, "error chain MUST contain the sentinel")
			assert.Contains(t, err.Error(), tt.in.Error(), "original message MUST be preserved")
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, NormalizeError(nil))
	})

	t.Run("unknown errors pass through", func(t *testing.T) {
		err := NormalizeError(context.Canceled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrBluetoothOff)
	})
}

func TestCharPropsString(t *testing.T) {
	assert.Equal(t, "read,write,notify", CharProps{Read: true, Write: true, Notify: true}.String())
	assert.Equal(t, "notify", CharProps{Notify: true}.String())
	assert.Equal(t, "none", CharProps{}.String())
}

func TestConnectionErrorIs(t *testing.T) {
	err := NormalizeError(fmt.Errorf("write failed: device not connected"))
	assert.True(t, IsConnectionState(err, NotConnected))
	assert.False(t, IsConnectionState(err, AlreadyConnected))
}
