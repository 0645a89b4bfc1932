package session

import (
	"github.com/sirupsen/logrus"

	"github.com/srg/bleterm/internal/radio"
)

// Scanner concern: an ordered, deduplicated list of nameable peripherals,
// and the hand-off from scanning to a pending connect.

func (s *Session) handlePowerLocked(ev radio.PowerEvent) {
	s.poweredOn = ev.PoweredOn
	if ev.PoweredOn {
		s.startScanLocked()
		return
	}
	s.scanning = false
	s.display.Errorf("bluetooth is not available")

	// Power loss kills any connection at the radio level; the stack may
	// never deliver a disconnect callback for it. Reset here rather than
	// wait at a dead depth. Scanning resumes with the next power-on.
	if s.device != nil || s.pending != nil {
		s.logger.Warn("power lost with a device selected")
		s.fullResetLocked()
	}
}

// handleAdvertisementLocked appends a newly discovered peripheral to the
// ordered device list. Unnamed devices are never listed; duplicate
// advertisements of a known identity are dropped silently.
func (s *Session) handleAdvertisementLocked(ev radio.AdvertisementEvent) {
	if !s.scanning {
		return
	}
	if ev.Name == "" {
		return
	}
	if _, seen := s.devices.Get(ev.Addr); seen {
		return
	}

	ref := DeviceRef{Addr: ev.Addr, Name: ev.Name, RSSI: ev.RSSI}
	s.devices.Set(ev.Addr, ref)
	s.display.Devicef(s.devices.Len(), ref.RSSI, ref.Label())
}

// connectIndexLocked validates a device index against the current snapshot
// and initiates the connection. Scanning stops when the attempt begins; the
// connect result arrives later as a hardware callback.
func (s *Session) connectIndexLocked(index int) {
	count := s.devices.Len()
	if index < 1 || index > count {
		s.reportOutOfRangeLocked("device", index, count)
		return
	}

	ref := s.deviceAtLocked(index)
	s.scanning = false
	s.central.StopScan()
	s.pending = &ref

	s.logger.WithFields(logrus.Fields{
		"addr": ref.Addr,
		"name": ref.Name,
	}).Info("connecting")
	s.display.Noticef("connecting to %s...", ref.Label())

	if err := s.central.Connect(ref.Addr); err != nil {
		s.logger.WithError(err).Error("connect request failed")
		s.display.Errorf("connect failed: %v", err)
		s.fullResetLocked()
	}
}

// deviceAtLocked returns the 1-based entry of the ordered device list.
// Callers must validate the index first.
func (s *Session) deviceAtLocked(index int) DeviceRef {
	pair := s.devices.Oldest()
	for i := 1; i < index; i++ {
		pair = pair.Next()
	}
	return pair.Value
}

func (s *Session) startScanLocked() {
	if !s.poweredOn || s.scanning {
		return
	}
	if err := s.central.StartScan(); err != nil {
		s.logger.WithError(err).Error("scan request failed")
		s.display.Errorf("scan failed: %v", err)
		return
	}
	s.scanning = true
	s.display.Noticef("scanning for devices...")
}

func (s *Session) reportOutOfRangeLocked(resource string, index, count int) {
	err := &OutOfRangeError{Resource: resource, Index: index, Count: count}
	s.logger.WithFields(logrus.Fields{
		"resource": resource,
		"index":    index,
		"count":    count,
	}).Warn("selection out of range")
	s.display.Errorf("%v", err)
}
