// Package goble adapts github.com/go-ble/ble to the radio.Central capability
// interface. All library callbacks are converted to radio events and pushed
// onto a single ordered channel; the session side never sees ble types.
package goble

import (
	"context"
	"fmt"
	"sync"

	"github.com/cornelk/hashmap"
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/examples/lib/dev"
	"github.com/sirupsen/logrus"

	"github.com/srg/bleterm/internal/bledb"
	"github.com/srg/bleterm/internal/radio"
)

// DefaultEventBuffer is the default capacity of the inbound event channel.
const DefaultEventBuffer = 64

// DeviceFactory creates ble.Device instances (can be overridden in tests)
//
//nolint:revive // DeviceFactory name is intentional for test mocking
var DeviceFactory = func() (ble.Device, error) {
	return dev.DefaultDevice()
}

// Central implements radio.Central over go-ble. It models a single
// connection at a time, which is all the session layer supports.
type Central struct {
	logger *logrus.Logger
	events *radio.RingChannel[radio.Event]

	mu         sync.Mutex
	dev        ble.Device
	scanCancel context.CancelFunc

	client ble.Client
	// Discovered handles by normalized UUID. The characteristic map is
	// concurrent because notification callbacks resolve handles outside the
	// adapter mutex.
	services map[string]*ble.Service
	chars    *hashmap.Map[string, *ble.Characteristic]
}

// NewCentral initializes the BLE stack and reports the resulting power state
// as the first event on the channel.
func NewCentral(logger *logrus.Logger, eventBuffer int) (*Central, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if eventBuffer <= 0 {
		eventBuffer = DefaultEventBuffer
	}

	c := &Central{
		logger: logger,
		events: radio.NewRingChannel[radio.Event](eventBuffer),
		chars:  hashmap.New[string, *ble.Characteristic](),
	}

	dev, err := DeviceFactory()
	if err != nil {
		err = radio.NormalizeError(err)
		c.logger.WithError(err).Warn("BLE stack unavailable")
		c.events.ForceSend(radio.PowerEvent{PoweredOn: false})
		return c, err
	}
	c.dev = dev
	c.events.ForceSend(radio.PowerEvent{PoweredOn: true})
	return c, nil
}

// Events returns the ordered inbound event channel.
func (c *Central) Events() <-chan radio.Event {
	return c.events.C()
}

// StartScan begins advertisement discovery with no service filters. Each
// advertisement is forwarded as an event; deduplication is the consumer's
// concern.
func (c *Central) StartScan() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev == nil {
		return radio.ErrNotInitialized
	}
	if c.scanCancel != nil {
		return nil // already scanning
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.scanCancel = cancel

	go func() {
		err := c.dev.Scan(ctx, false, func(adv ble.Advertisement) {
			c.events.ForceSend(radio.AdvertisementEvent{
				Addr: adv.Addr().String(),
				Name: adv.LocalName(),
				RSSI: adv.RSSI(),
			})
		})
		if err != nil && ctx.Err() == nil {
			c.logger.WithError(radio.NormalizeError(err)).Error("scan terminated")
		}
	}()
	return nil
}

// StopScan stops an in-progress scan. Safe to call when not scanning.
func (c *Central) StopScan() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanCancel != nil {
		c.scanCancel()
		c.scanCancel = nil
	}
}

// Connect dials the peripheral in the background; the result arrives as a
// ConnectedEvent or ConnectFailedEvent. No internally imposed timeout: the
// attempt resolves when the stack resolves it.
func (c *Central) Connect(addr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev == nil {
		return radio.ErrNotInitialized
	}
	if c.client != nil {
		return radio.ErrAlreadyConnected
	}

	go func() {
		client, err := ble.Dial(context.Background(), ble.NewAddr(addr))
		if err != nil {
			c.events.ForceSend(radio.ConnectFailedEvent{Addr: addr, Err: radio.NormalizeError(err)})
			return
		}

		c.mu.Lock()
		c.client = client
		c.mu.Unlock()

		c.events.ForceSend(radio.ConnectedEvent{Addr: addr})
		go c.watchDisconnect(client, addr)
	}()
	return nil
}

// watchDisconnect forwards the stack's disconnect signal as an event and
// clears the connection handles.
func (c *Central) watchDisconnect(client ble.Client, addr string) {
	type disconnecter interface{ Disconnected() <-chan struct{} }
	dc, ok := client.(disconnecter)
	if !ok {
		c.logger.Debug("client does not expose a Disconnected channel")
		return
	}
	<-dc.Disconnected()

	c.mu.Lock()
	if c.client == client {
		c.client = nil
		c.services = nil
		c.chars = hashmap.New[string, *ble.Characteristic]()
	}
	c.mu.Unlock()

	c.events.ForceSend(radio.DisconnectedEvent{Addr: addr})
}

// Disconnect requests teardown of the current connection. The
// DisconnectedEvent fires via the stack's disconnect signal.
func (c *Central) Disconnect() error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return radio.ErrNotConnected
	}
	return radio.NormalizeError(client.CancelConnection())
}

// DiscoverServices runs service discovery in the background and delivers the
// replace-semantics snapshot as a ServicesEvent.
func (c *Central) DiscoverServices() error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return radio.ErrNotConnected
	}

	go func() {
		svcs, err := client.DiscoverServices(nil)
		if err != nil {
			c.events.ForceSend(radio.ServicesEvent{Err: radio.NormalizeError(err)})
			return
		}

		byUUID := make(map[string]*ble.Service, len(svcs))
		infos := make([]radio.ServiceInfo, 0, len(svcs))
		for _, svc := range svcs {
			uuid := bledb.NormalizeUUID(svc.UUID.String())
			byUUID[uuid] = svc
			infos = append(infos, radio.ServiceInfo{UUID: uuid})
		}

		c.mu.Lock()
		c.services = byUUID
		c.mu.Unlock()

		c.events.ForceSend(radio.ServicesEvent{Services: infos})
	}()
	return nil
}

// DiscoverCharacteristics runs characteristic discovery for one service and
// delivers the snapshot as a CharacteristicsEvent.
func (c *Central) DiscoverCharacteristics(serviceUUID string) error {
	c.mu.Lock()
	client := c.client
	svc := c.services[bledb.NormalizeUUID(serviceUUID)]
	c.mu.Unlock()

	if client == nil {
		return radio.ErrNotConnected
	}
	if svc == nil {
		return fmt.Errorf("service %q not discovered", serviceUUID)
	}

	go func() {
		chars, err := client.DiscoverCharacteristics(nil, svc)
		if err != nil {
			c.events.ForceSend(radio.CharacteristicsEvent{
				ServiceUUID: bledb.NormalizeUUID(serviceUUID),
				Err:         radio.NormalizeError(err),
			})
			return
		}

		infos := make([]radio.CharacteristicInfo, 0, len(chars))
		for _, char := range chars {
			uuid := bledb.NormalizeUUID(char.UUID.String())
			c.chars.Set(uuid, char)
			infos = append(infos, radio.CharacteristicInfo{
				UUID: uuid,
				Props: radio.CharProps{
					Read:   char.Property&ble.CharRead != 0,
					Write:  char.Property&(ble.CharWrite|ble.CharWriteNR) != 0,
					Notify: char.Property&(ble.CharNotify|ble.CharIndicate) != 0,
				},
			})
		}

		c.events.ForceSend(radio.CharacteristicsEvent{
			ServiceUUID:     bledb.NormalizeUUID(serviceUUID),
			Characteristics: infos,
		})
	}()
	return nil
}

// ReadValue issues a read; the response arrives as a ValueEvent, the same
// path used for notifications.
func (c *Central) ReadValue(charUUID string) error {
	client, char, err := c.handles(charUUID)
	if err != nil {
		return err
	}

	go func() {
		data, err := client.ReadCharacteristic(char)
		if err != nil {
			c.events.ForceSend(radio.ValueEvent{CharUUID: charUUID, Err: radio.NormalizeError(err)})
			return
		}
		c.events.ForceSend(radio.ValueEvent{CharUUID: charUUID, Data: data})
	}()
	return nil
}

// WriteValue writes with acknowledgment and blocks until the stack confirms.
func (c *Central) WriteValue(charUUID string, data []byte) error {
	client, char, err := c.handles(charUUID)
	if err != nil {
		return err
	}
	return radio.NormalizeError(client.WriteCharacteristic(char, data, false))
}

// SetNotify enables or disables notifications for a characteristic. Inbound
// notifications are forwarded as ValueEvents.
func (c *Central) SetNotify(charUUID string, enable bool) error {
	client, char, err := c.handles(charUUID)
	if err != nil {
		return err
	}

	if !enable {
		return radio.NormalizeError(client.Unsubscribe(char, false))
	}
	return radio.NormalizeError(client.Subscribe(char, false, func(data []byte) {
		c.events.ForceSend(radio.ValueEvent{CharUUID: charUUID, Data: data})
	}))
}

func (c *Central) handles(charUUID string) (ble.Client, *ble.Characteristic, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return nil, nil, radio.ErrNotConnected
	}
	char, ok := c.chars.Get(bledb.NormalizeUUID(charUUID))
	if !ok {
		return nil, nil, fmt.Errorf("characteristic %q not discovered", charUUID)
	}
	return client, char, nil
}
