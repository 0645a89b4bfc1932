package session

import (
	"strconv"
	"strings"
)

// hexMarker is the trailing letter on a characteristic-selection line that
// switches inbound decoding to hex. Absence means raw.
const hexMarker = 'h'

// HandleLine interprets one line of user input according to the current
// depth and dispatches the corresponding request.
//
// Priority order: the unwind control, then the refresh control, then
// depth-keyed numeric dispatch. At CharacteristicSelected the line is the
// literal outbound payload and is never parsed as a number.
func (s *Session) HandleLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line = strings.TrimRight(line, "\r\n")

	if len(line) > 0 && line[0] == ControlUnwind {
		s.unwindLocked()
		return
	}
	if len(line) > 0 && line[0] == ControlRefresh {
		s.refreshLocked()
		return
	}

	switch s.depthLocked() {
	case NoDevice:
		s.connectIndexLocked(parseIndex(line))
	case DeviceSelected:
		s.selectServiceLocked(parseIndex(line))
	case ServiceSelected:
		idx, format := parseCharacteristicSelection(line)
		s.selectCharacteristicLocked(idx, format)
	case CharacteristicSelected:
		s.sendLocked(line)
	}
}

// parseIndex parses a 1-based list index. Malformed input parses as 0, which
// fails range validation downstream; it is deliberately not a distinct error.
func parseIndex(line string) int {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0
	}
	return n
}

// parseCharacteristicSelection splits an optional trailing hex marker off a
// characteristic index line.
func parseCharacteristicSelection(line string) (int, Format) {
	trimmed := strings.TrimSpace(line)
	format := FormatRaw
	if strings.HasSuffix(trimmed, string(rune(hexMarker))) {
		format = FormatHex
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, string(rune(hexMarker))))
	}
	return parseIndex(trimmed), format
}
