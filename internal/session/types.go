package session

import (
	"github.com/srg/bleterm/internal/bledb"
	"github.com/srg/bleterm/internal/radio"
)

// Control bytes reserved on the input surface. They are recognized ahead of
// any numeric interpretation, at every depth.
const (
	// ControlUnwind (Ctrl+]) pops one navigation level.
	ControlUnwind = 0x1d
	// ControlRefresh (Ctrl+R) re-reads the selected characteristic value.
	ControlRefresh = 0x12
)

// Depth is the session's current navigation stage. It is derived from which
// selections are set, never stored, so illegal combinations (service without
// device) are unrepresentable.
type Depth int

const (
	NoDevice Depth = iota
	DeviceSelected
	ServiceSelected
	CharacteristicSelected
)

func (d Depth) String() string {
	switch d {
	case NoDevice:
		return "no_device"
	case DeviceSelected:
		return "device_selected"
	case ServiceSelected:
		return "service_selected"
	case CharacteristicSelected:
		return "characteristic_selected"
	default:
		return "unknown"
	}
}

// Format selects how inbound characteristic values are decoded for display.
type Format int

const (
	FormatRaw Format = iota
	FormatHex
)

func (f Format) String() string {
	if f == FormatHex {
		return "hex"
	}
	return "raw"
}

// DeviceRef identifies a discovered peripheral. The address is the stable
// identity; name and RSSI are as advertised at discovery time.
type DeviceRef struct {
	Addr string
	Name string
	RSSI int
}

// Label returns the advertised name, falling back to the address.
func (d DeviceRef) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Addr
}

// ServiceRef identifies a discovered GATT service.
type ServiceRef struct {
	UUID string
}

// Description returns the SIG assigned name when known, else the shortened UUID.
func (s ServiceRef) Description() string {
	if name := bledb.LookupService(s.UUID); name != "" {
		return name
	}
	return bledb.ShortenUUID(bledb.NormalizeUUID(s.UUID))
}

// CharacteristicRef identifies a discovered GATT characteristic.
type CharacteristicRef struct {
	UUID  string
	Props radio.CharProps
}

// Description returns the SIG assigned name when known, else the shortened UUID.
func (c CharacteristicRef) Description() string {
	if name := bledb.LookupCharacteristic(c.UUID); name != "" {
		return name
	}
	return bledb.ShortenUUID(bledb.NormalizeUUID(c.UUID))
}

// Display is the presentation collaborator. The session owns the content and
// order of what is shown; the implementation owns formatting only.
type Display interface {
	// Devicef shows one discovered-device line: "index: [rssi] label".
	Devicef(index int, rssi int, label string)
	// Servicef shows one service enumeration line.
	Servicef(index int, desc string)
	// Characteristicf shows one characteristic enumeration line.
	Characteristicf(index int, desc string, props radio.CharProps)
	// Incoming shows a decoded inbound value, prefixed distinctly from
	// other output.
	Incoming(text string)
	// Noticef shows an informational line.
	Noticef(format string, args ...interface{})
	// Errorf shows a non-fatal error line.
	Errorf(format string, args ...interface{})
}
