package encoding

import (
	"testing"
)

func TestRead8(t *testing.T) {
	if got := Read8([]byte{0x00, 0x2A}, 1); got != 0x2A {
		t.Errorf("Read8 = %02X, want 2A", got)
	}
}

func TestRead16(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		offset   int
		expected uint16
	}{
		{"zero", []byte{0x00, 0x00}, 0, 0x0000},
		{"little endian 0x1234", []byte{0x34, 0x12}, 0, 0x1234},
		{"max value", []byte{0xFF, 0xFF}, 0, 0xFFFF},
		{"with offset", []byte{0x00, 0x34, 0x12, 0x00}, 1, 0x1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Read16(tt.data, tt.offset)
			if result != tt.expected {
				t.Errorf("Read16(%v, %d) = %04X, want %04X", tt.data, tt.offset, result, tt.expected)
			}
		})
	}
}

func TestRead32(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		offset   int
		expected uint32
	}{
		{"zero", []byte{0x00, 0x00, 0x00, 0x00}, 0, 0x00000000},
		{"little endian 0x12345678", []byte{0x78, 0x56, 0x34, 0x12}, 0, 0x12345678},
		{"max value", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0, 0xFFFFFFFF},
		{"with offset", []byte{0x00, 0x78, 0x56, 0x34, 0x12, 0x00}, 1, 0x12345678},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Read32(tt.data, tt.offset)
			if result != tt.expected {
				t.Errorf("Read32(%v, %d) = %08X, want %08X", tt.data, tt.offset, result, tt.expected)
			}
		})
	}
}

func TestSubArray(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	got := SubArray(data, 1, 3)
	want := []byte{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("SubArray length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SubArray[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRoundTripRead16(t *testing.T) {
	testValues := []uint16{0, 1, 255, 256, 1000, 65535}

	for _, val := range testValues {
		data := make([]byte, 2)
		data[0] = byte(val & 0xFF)
		data[1] = byte((val >> 8) & 0xFF)

		result := Read16(data, 0)
		if result != val {
			t.Errorf("Round-trip failed for %d: got %d", val, result)
		}
	}
}

func TestWrite16_RoundTripsWithRead16(t *testing.T) {
	data := make([]byte, 2)
	Write16(data, 0x1234)
	if got := Read16(data, 0); got != 0x1234 {
		t.Errorf("Write16/Read16 round trip = %04X, want 1234", got)
	}
}

func TestWrite32_RoundTripsWithRead32(t *testing.T) {
	data := make([]byte, 4)
	Write32(data, 0x12345678)
	if got := Read32(data, 0); got != 0x12345678 {
		t.Errorf("Write32/Read32 round trip = %08X, want 12345678", got)
	}
}

func TestRoundTripRead32(t *testing.T) {
	testValues := []uint32{0, 1, 255, 256, 65535, 65536, 0x12345678, 0xFFFFFFFF}

	for _, val := range testValues {
		data := make([]byte, 4)
		data[0] = byte(val & 0xFF)
		data[1] = byte((val >> 8) & 0xFF)
		data[2] = byte((val >> 16) & 0xFF)
		data[3] = byte((val >> 24) & 0xFF)

		result := Read32(data, 0)
		if result != val {
			t.Errorf("Round-trip failed for %d: got %d", val, result)
		}
	}
}
