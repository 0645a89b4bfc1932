// Package session implements the interactive GATT exploration state machine.
//
// A Session tracks navigation depth (device → service → characteristic →
// data exchange), interprets each line of user input according to that depth,
// and drives the corresponding radio requests. Hardware callbacks arrive on
// the Central's ordered event channel and are reconciled with user input
// under a single mutex: at most one mutating operation runs at a time.
package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/bleterm/internal/radio"
)

// Session is the single mutable aggregate of the tool: current selections,
// discovered-list snapshots, and the output format.
type Session struct {
	mu      sync.Mutex
	central radio.Central
	display Display
	logger  *logrus.Logger

	poweredOn bool
	scanning  bool

	devices *orderedmap.OrderedMap[string, DeviceRef]
	pending *DeviceRef // connect target awaiting the hardware callback

	device          *DeviceRef
	services        []ServiceRef
	service         *ServiceRef
	characteristics []CharacteristicRef
	characteristic  *CharacteristicRef
	format          Format
}

// New creates a Session wired to the given radio stack and display.
func New(central radio.Central, display Display, logger *logrus.Logger) *Session {
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{
		central: central,
		display: display,
		logger:  logger,
		devices: orderedmap.New[string, DeviceRef](),
	}
}

// Run consumes the radio event channel until ctx is cancelled or the channel
// closes. It is the only consumer; event ordering is preserved.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.central.Events():
			if !ok {
				return
			}
			s.HandleEvent(ev)
		}
	}
}

// Depth returns the current navigation depth.
func (s *Session) Depth() Depth {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depthLocked()
}

// Format returns the currently selected output format.
func (s *Session) Format() Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// Prompt returns a depth-aware prompt string for the line editor.
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.depthLocked() {
	case DeviceSelected:
		return s.device.Label() + "> "
	case ServiceSelected:
		return s.device.Label() + "/" + s.service.Description() + "> "
	case CharacteristicSelected:
		return s.device.Label() + "/" + s.characteristic.Description() + "> "
	default:
		return "scan> "
	}
}

// depth is fully determined by which selections are set
func (s *Session) depthLocked() Depth {
	switch {
	case s.characteristic != nil:
		return CharacteristicSelected
	case s.service != nil:
		return ServiceSelected
	case s.device != nil:
		return DeviceSelected
	default:
		return NoDevice
	}
}

// HandleEvent applies one hardware event to the session. Events mutate the
// same aggregate as user input, so both paths share the session mutex.
func (s *Session) HandleEvent(ev radio.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case radio.PowerEvent:
		s.handlePowerLocked(e)
	case radio.AdvertisementEvent:
		s.handleAdvertisementLocked(e)
	case radio.ConnectedEvent:
		s.handleConnectedLocked(e)
	case radio.ConnectFailedEvent:
		s.logger.WithField("addr", e.Addr).WithError(e.Err).Warn("connect failed")
		s.display.Errorf("connect failed: %v", e.Err)
		s.fullResetLocked()
	case radio.DisconnectedEvent:
		if e.Err != nil {
			s.display.Errorf("disconnected: %v", e.Err)
		} else {
			s.display.Noticef("disconnected")
		}
		s.fullResetLocked()
	case radio.ServicesEvent:
		s.handleServicesDiscoveredLocked(e)
	case radio.CharacteristicsEvent:
		s.handleCharacteristicsDiscoveredLocked(e)
	case radio.ValueEvent:
		s.handleValueUpdatedLocked(e)
	case radio.ServicesInvalidatedEvent:
		s.handleServicesInvalidatedLocked()
	default:
		s.logger.WithField("event", ev).Debug("unhandled radio event")
	}
}

func (s *Session) handleConnectedLocked(ev radio.ConnectedEvent) {
	if s.pending == nil || s.pending.Addr != ev.Addr {
		s.logger.WithField("addr", ev.Addr).Debug("stray connect callback")
		return
	}
	s.device = s.pending
	s.pending = nil
	s.display.Noticef("connected to %s", s.device.Label())

	// Service discovery is triggered automatically; the service list stays
	// empty until the discovery callback fires, so numbering stays stable.
	if err := s.central.DiscoverServices(); err != nil {
		s.logger.WithError(err).Error("service discovery request failed")
		s.display.Errorf("service discovery failed: %v", err)
	}
}

// handleServicesInvalidatedLocked treats a services-changed event as
// unrecoverable staleness: request a disconnect and let the disconnect
// callback perform the full reset.
func (s *Session) handleServicesInvalidatedLocked() {
	s.logger.Warn("peripheral invalidated its services")
	if s.device == nil && s.pending == nil {
		s.fullResetLocked()
		return
	}
	if err := s.central.Disconnect(); err != nil {
		s.logger.WithError(err).Error("disconnect request failed")
		s.fullResetLocked()
	}
}

// unwindLocked pops one navigation level. It cancels selection state only;
// an in-flight hardware operation cannot be aborted from here.
func (s *Session) unwindLocked() {
	switch s.depthLocked() {
	case CharacteristicSelected:
		s.characteristic = nil
		s.characteristics = nil
		if err := s.central.DiscoverCharacteristics(s.service.UUID); err != nil {
			s.logger.WithError(err).Error("characteristic discovery request failed")
			s.display.Errorf("characteristic discovery failed: %v", err)
		}
	case ServiceSelected:
		s.service = nil
		s.services = nil
		s.characteristics = nil
		if err := s.central.DiscoverServices(); err != nil {
			s.logger.WithError(err).Error("service discovery request failed")
			s.display.Errorf("service discovery failed: %v", err)
		}
	case DeviceSelected:
		// State transitions to NoDevice only once the disconnect callback
		// actually fires.
		if err := s.central.Disconnect(); err != nil {
			s.logger.WithError(err).Error("disconnect request failed")
		}
	case NoDevice:
		s.fullResetLocked()
	}
}

func (s *Session) refreshLocked() {
	if s.depthLocked() != CharacteristicSelected {
		s.logger.Debug("refresh ignored outside characteristic selection")
		return
	}
	if err := s.central.ReadValue(s.characteristic.UUID); err != nil {
		s.logger.WithError(err).Error("read request failed")
	}
}

// fullResetLocked clears every list and selection and restarts scanning.
func (s *Session) fullResetLocked() {
	s.devices = orderedmap.New[string, DeviceRef]()
	s.pending = nil
	s.device = nil
	s.services = nil
	s.service = nil
	s.characteristics = nil
	s.characteristic = nil
	s.format = FormatRaw
	s.startScanLocked()
}
