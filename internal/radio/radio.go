// Package radio defines the capability interface over the BLE host stack.
//
// The session layer never talks to a concrete BLE library; it issues requests
// through Central and consumes the asynchronous hardware callbacks as Events
// delivered on a single ordered channel. The stack guarantees callbacks are
// serial and non-reentrant, and the channel preserves that ordering.
package radio

import (
	"errors"
	"fmt"
	"strings"
)

// ConnectionState represents the specific kind of connection state failure
type ConnectionState string

const (
	NotConnected     ConnectionState = "not_connected"
	AlreadyConnected ConnectionState = "already_connected"
	NotInitialized   ConnectionState = "not_initialized"
)

// ConnectionError represents any connection-related problem
type ConnectionError struct {
	State ConnectionState
	Msg   string
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.State)
	}
	return fmt.Sprintf("%s: %s", e.State, e.Msg)
}

// Is allows errors.Is to compare ConnectionError values by State
func (e *ConnectionError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*ConnectionError)
	if !ok {
		return false
	}
	return e.State == t.State
}

// Predefined sentinel errors for connection states
var (
	ErrNotConnected     = &ConnectionError{State: NotConnected}
	ErrAlreadyConnected = &ConnectionError{State: AlreadyConnected}
	ErrNotInitialized   = &ConnectionError{State: NotInitialized}

	ErrBluetoothOff = errors.New("bluetooth is turned off")
)

// NormalizeError maps known BLE stack error strings to structured error
// types, so callers can use errors.Is even if the upstream library changes
// messages slightly. The original error is preserved in the chain.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case containsIgnoreCase(msg, "is bluetooth turned on"):
		return fmt.Errorf("%w: %v", ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "bluetooth is turned off"):
		return fmt.Errorf("%w: %v", ErrBluetoothOff, err)
	case containsIgnoreCase(msg, "device not connected"):
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	case containsIgnoreCase(msg, "device already connected"):
		return fmt.Errorf("%w: %v", ErrAlreadyConnected, err)
	case containsIgnoreCase(msg, "connection is not initialized"):
		return fmt.Errorf("%w: %v", ErrNotInitialized, err)
	default:
		return err
	}
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// IsConnectionState reports whether err is a ConnectionError with the given state
func IsConnectionState(err error, state ConnectionState) bool {
	var cerr *ConnectionError
	if errors.As(err, &cerr) {
		return cerr.State == state
	}
	return false
}

// CharProps describes the capability bits of a characteristic relevant to
// this tool.
type CharProps struct {
	Read   bool
	Write  bool
	Notify bool
}

func (p CharProps) String() string {
	flags := make([]string, 0, 3)
	if p.Read {
		flags = append(flags, "read")
	}
	if p.Write {
		flags = append(flags, "write")
	}
	if p.Notify {
		flags = append(flags, "notify")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, ",")
}

// ServiceInfo is a discovery result entry for a GATT service.
type ServiceInfo struct {
	UUID string
}

// CharacteristicInfo is a discovery result entry for a GATT characteristic.
type CharacteristicInfo struct {
	UUID  string
	Props CharProps
}

// Central is the capability interface over the BLE host stack.
//
// Requests are asynchronous: a nil return means the request was issued, not
// that it completed. Completion, failure, and unsolicited state changes all
// arrive as Events. WriteValue is the one exception: it blocks until the
// stack acknowledges the write or reports a transport error.
type Central interface {
	// Events returns the ordered inbound event channel. All hardware
	// callbacks are delivered here, serially.
	Events() <-chan Event

	// StartScan begins advertisement discovery with no service filters.
	StartScan() error
	// StopScan stops an in-progress scan. Safe to call when not scanning.
	StopScan()

	// Connect initiates a connection to the peripheral with the given
	// address. Completion arrives as ConnectedEvent or ConnectFailedEvent.
	Connect(addr string) error
	// Disconnect tears down the current connection; the DisconnectedEvent
	// fires once the stack confirms.
	Disconnect() error

	DiscoverServices() error
	DiscoverCharacteristics(serviceUUID string) error

	ReadValue(charUUID string) error
	WriteValue(charUUID string, data []byte) error
	SetNotify(charUUID string, enable bool) error
}

// Event is a hardware callback converted to a value. Exactly one concrete
// type below applies per event.
type Event interface{ isEvent() }

// PowerEvent reports an adapter power state change.
type PowerEvent struct {
	PoweredOn bool
}

// AdvertisementEvent reports a single advertisement observed during scanning.
type AdvertisementEvent struct {
	Addr string
	Name string
	RSSI int
}

// ConnectedEvent reports a successful connection.
type ConnectedEvent struct {
	Addr string
}

// ConnectFailedEvent reports a failed connection attempt.
type ConnectFailedEvent struct {
	Addr string
	Err  error
}

// DisconnectedEvent reports connection loss, requested or not.
type DisconnectedEvent struct {
	Addr string
	Err  error
}

// ServicesEvent carries a service discovery result. The list replaces any
// prior snapshot; an empty list is a valid result, not an error.
type ServicesEvent struct {
	Services []ServiceInfo
	Err      error
}

// CharacteristicsEvent carries a characteristic discovery result for one
// service, with the same replace semantics as ServicesEvent.
type CharacteristicsEvent struct {
	ServiceUUID     string
	Characteristics []CharacteristicInfo
	Err             error
}

// ValueEvent carries inbound characteristic data. It is used for both read
// responses and unsolicited notifications.
type ValueEvent struct {
	CharUUID string
	Data     []byte
	Err      error
}

// ServicesInvalidatedEvent reports that the peripheral changed its service
// table; any discovered state for the connection is stale.
type ServicesInvalidatedEvent struct{}

func (PowerEvent) isEvent()               {}
func (AdvertisementEvent) isEvent()       {}
func (ConnectedEvent) isEvent()           {}
func (ConnectFailedEvent) isEvent()       {}
func (DisconnectedEvent) isEvent()        {}
func (ServicesEvent) isEvent()            {}
func (CharacteristicsEvent) isEvent()     {}
func (ValueEvent) isEvent()               {}
func (ServicesInvalidatedEvent) isEvent() {}
