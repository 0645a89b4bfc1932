package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		data     []byte
		expected string
	}{
		{"raw ascii", FormatRaw, []byte("ok"), "ok"},
		{"raw empty", FormatRaw, nil, ""},
		{"raw non-ascii yields empty", FormatRaw, []byte{0x0a, 0xff}, ""},
		{"hex", FormatHex, []byte{0x0a, 0xff}, "0aff"},
		{"hex empty", FormatHex, nil, ""},
		{"hex lowercase two digits per byte", FormatHex, []byte{0x00, 0x01, 0xab}, "0001ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeValue(tt.format, tt.data))
		})
	}
}

func TestEncodeASCII(t *testing.T) {
	payload, ok := encodeASCII("hello")
	assert.True(t, ok)
	assert.Equal(t, []byte{'h', 'e', 'l', 'l', 'o', '\r'}, payload)

	payload, ok = encodeASCII("")
	assert.True(t, ok, "empty line still sends the CR terminator")
	assert.Equal(t, []byte{'\r'}, payload)

	_, ok = encodeASCII("héllo")
	assert.False(t, ok, "non-ASCII code points reject the whole payload")
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1", 1},
		{" 42 ", 42},
		{"-3", -3},
		{"abc", 0}, // malformed input parses as zero, not as an error
		{"", 0},
		{"1.5", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseIndex(tt.input), "input %q", tt.input)
	}
}

func TestParseCharacteristicSelection(t *testing.T) {
	tests := []struct {
		input  string
		index  int
		format Format
	}{
		{"2", 2, FormatRaw},
		{"2h", 2, FormatHex},
		{"2 h", 2, FormatHex},
		{"h", 0, FormatHex},
		{"abc", 0, FormatRaw},
	}

	for _, tt := range tests {
		idx, f := parseCharacteristicSelection(tt.input)
		assert.Equal(t, tt.index, idx, "input %q", tt.input)
		assert.Equal(t, tt.format, f, "input %q", tt.input)
	}
}
