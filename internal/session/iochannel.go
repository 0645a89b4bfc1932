package session

import (
	"encoding/hex"
	"unicode"

	"github.com/srg/bleterm/internal/radio"
)

// I/O Channel concern: outbound payload encoding and inbound value decoding.

// sendLocked transmits one line of text to the selected characteristic.
//
// A single carriage-return byte is appended and the result is encoded as
// strict 7-bit ASCII. Payloads containing any non-ASCII code point are
// dropped whole; the peer protocol is narrow and partial transliteration
// would be worse than silence. Missing prerequisites (no device or no
// characteristic) also drop the payload without an error.
func (s *Session) sendLocked(text string) {
	if s.device == nil || s.characteristic == nil {
		s.logger.Debug("send dropped: no characteristic selected")
		return
	}

	payload, ok := encodeASCII(text)
	if !ok {
		s.logger.WithField("text", text).Warn("send dropped: payload is not ASCII")
		return
	}

	// Write with acknowledgment; blocks until the stack confirms. Transport
	// errors are logged only and never alter depth or selection.
	if err := s.central.WriteValue(s.characteristic.UUID, payload); err != nil {
		s.logger.WithError(err).Error("write failed")
	}
}

// handleValueUpdatedLocked renders inbound data for the selected
// characteristic. Values for anything else are stale, typically a
// notification that was in flight when the selection was unwound, and are
// dropped the same way stray discovery results are.
func (s *Session) handleValueUpdatedLocked(ev radio.ValueEvent) {
	if s.characteristic == nil || s.characteristic.UUID != ev.CharUUID {
		s.logger.WithField("characteristic", ev.CharUUID).Debug("stray value update")
		return
	}
	if ev.Err != nil {
		s.logger.WithError(ev.Err).Warn("value update failed")
		return
	}
	s.display.Incoming(DecodeValue(s.format, ev.Data))
}

// encodeASCII appends the trailing CR and verifies every code point fits in
// 7-bit ASCII. Returns false if the text cannot be sent.
func encodeASCII(text string) ([]byte, bool) {
	for _, r := range text {
		if r > unicode.MaxASCII {
			return nil, false
		}
	}
	return append([]byte(text), '\r'), true
}

// DecodeValue renders inbound bytes per the selected format.
//
// Raw is a best-effort ASCII interpretation: any byte outside the ASCII
// range makes the whole decode yield "", never an error. Hex renders each
// byte as exactly two lowercase digits with no separators.
func DecodeValue(format Format, data []byte) string {
	switch format {
	case FormatHex:
		return hex.EncodeToString(data)
	default:
		for _, b := range data {
			if b > unicode.MaxASCII {
				return ""
			}
		}
		return string(data)
	}
}
