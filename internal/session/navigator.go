package session

import (
	"github.com/sirupsen/logrus"

	"github.com/srg/bleterm/internal/radio"
)

// GATT Navigator concern: discovery requests against the connected device
// and the ordered result snapshots. Every discovery response replaces the
// corresponding list wholesale and re-emits a fresh 1-based enumeration;
// prior numbering is invalid from that point on.

// selectServiceLocked records the service at the given 1-based index and
// issues characteristic discovery for it. The characteristic list and
// selection are cleared first.
func (s *Session) selectServiceLocked(index int) {
	count := len(s.services)
	if index < 1 || index > count {
		s.reportOutOfRangeLocked("service", index, count)
		return
	}

	svc := s.services[index-1]
	s.characteristic = nil
	s.characteristics = nil
	s.service = &svc

	s.logger.WithField("service", svc.UUID).Info("service selected")
	if err := s.central.DiscoverCharacteristics(svc.UUID); err != nil {
		s.logger.WithError(err).Error("characteristic discovery request failed")
		s.display.Errorf("characteristic discovery failed: %v", err)
	}
}

// selectCharacteristicLocked records the characteristic and output format,
// then issues a read followed by a subscribe. The read goes out first so the
// current value is seen before any notification traffic.
func (s *Session) selectCharacteristicLocked(index int, format Format) {
	count := len(s.characteristics)
	if index < 1 || index > count {
		s.reportOutOfRangeLocked("characteristic", index, count)
		return
	}

	char := s.characteristics[index-1]
	s.characteristic = &char
	s.format = format

	s.logger.WithFields(logrus.Fields{
		"characteristic": char.UUID,
		"format":         format.String(),
	}).Info("characteristic selected")

	if err := s.central.ReadValue(char.UUID); err != nil {
		s.logger.WithError(err).Error("read request failed")
	}
	if err := s.central.SetNotify(char.UUID, true); err != nil {
		s.logger.WithError(err).Error("subscribe request failed")
	}
}

func (s *Session) handleServicesDiscoveredLocked(ev radio.ServicesEvent) {
	if s.device == nil {
		s.logger.Debug("stray service discovery result")
		return
	}
	if ev.Err != nil {
		s.logger.WithError(ev.Err).Error("service discovery failed")
		s.display.Errorf("service discovery failed: %v", ev.Err)
		return
	}

	s.services = make([]ServiceRef, 0, len(ev.Services))
	for _, info := range ev.Services {
		s.services = append(s.services, ServiceRef{UUID: info.UUID})
	}

	if len(s.services) == 0 {
		s.display.Noticef("no services")
		return
	}
	for i, svc := range s.services {
		s.display.Servicef(i+1, svc.Description())
	}
}

func (s *Session) handleCharacteristicsDiscoveredLocked(ev radio.CharacteristicsEvent) {
	if s.service == nil || s.service.UUID != ev.ServiceUUID {
		s.logger.WithField("service", ev.ServiceUUID).Debug("stray characteristic discovery result")
		return
	}
	if ev.Err != nil {
		s.logger.WithError(ev.Err).Error("characteristic discovery failed")
		s.display.Errorf("characteristic discovery failed: %v", ev.Err)
		return
	}

	s.characteristics = make([]CharacteristicRef, 0, len(ev.Characteristics))
	for _, info := range ev.Characteristics {
		s.characteristics = append(s.characteristics, CharacteristicRef{UUID: info.UUID, Props: info.Props})
	}

	if len(s.characteristics) == 0 {
		s.display.Noticef("no characteristics")
		return
	}
	for i, char := range s.characteristics {
		s.display.Characteristicf(i+1, char.Description(), char.Props)
	}
}
