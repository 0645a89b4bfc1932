// Package testutils provides fakes for the radio capability interface and
// the display collaborator, so the session state machine can be exercised
// deterministically without hardware.
package testutils

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/srg/bleterm/internal/radio"
)

// FakeCentral implements radio.Central by recording every request in order.
// Hardware callbacks are injected by the test, either through Emit (for
// consumers draining Events) or by handing events to the session directly.
type FakeCentral struct {
	mu       sync.Mutex
	requests []string
	events   *radio.RingChannel[radio.Event]

	// Per-request errors, returned once set.
	StartScanErr  error
	ConnectErr    error
	DisconnectErr error
	DiscoverErr   error
	ReadErr       error
	WriteErr      error
	NotifyErr     error
}

func NewFakeCentral() *FakeCentral {
	return &FakeCentral{
		events: radio.NewRingChannel[radio.Event](64),
	}
}

func (c *FakeCentral) record(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, fmt.Sprintf(format, args...))
}

// Requests returns a copy of the request log in issue order.
func (c *FakeCentral) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

// ClearRequests empties the request log.
func (c *FakeCentral) ClearRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = nil
}

// Emit injects a hardware event into the ordered event channel.
func (c *FakeCentral) Emit(ev radio.Event) {
	c.events.ForceSend(ev)
}

func (c *FakeCentral) Events() <-chan radio.Event {
	return c.events.C()
}

func (c *FakeCentral) StartScan() error {
	c.record("start-scan")
	return c.StartScanErr
}

func (c *FakeCentral) StopScan() {
	c.record("stop-scan")
}

func (c *FakeCentral) Connect(addr string) error {
	c.record("connect %s", addr)
	return c.ConnectErr
}

func (c *FakeCentral) Disconnect() error {
	c.record("disconnect")
	return c.DisconnectErr
}

func (c *FakeCentral) DiscoverServices() error {
	c.record("discover-services")
	return c.DiscoverErr
}

func (c *FakeCentral) DiscoverCharacteristics(serviceUUID string) error {
	c.record("discover-characteristics %s", serviceUUID)
	return c.DiscoverErr
}

func (c *FakeCentral) ReadValue(charUUID string) error {
	c.record("read %s", charUUID)
	return c.ReadErr
}

func (c *FakeCentral) WriteValue(charUUID string, data []byte) error {
	c.record("write %s %s", charUUID, hex.EncodeToString(data))
	return c.WriteErr
}

func (c *FakeCentral) SetNotify(charUUID string, enable bool) error {
	if enable {
		c.record("notify-on %s", charUUID)
	} else {
		c.record("notify-off %s", charUUID)
	}
	return c.NotifyErr
}
