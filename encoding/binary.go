// Package encoding provides little-endian wire decoding helpers shared by
// every memory decoder in this module: the party/bag/PC parsers, the map
// reader, and the dialog/battle snapshot readers all consume raw byte
// slices pulled from emulator memory through these functions instead of
// re-implementing offset math locally.
package encoding

import (
	"encoding/binary"
)

// Read8 returns the byte at the given offset.
func Read8(bytes []byte, offset int) uint8 {
	return bytes[offset]
}

// Read16 reads a little-endian uint16 from bytes at the given offset
func Read16(bytes []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(bytes[offset:])
}

// Read32 reads a little-endian uint32 from bytes at the given offset
func Read32(bytes []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(bytes[offset:])
}

// Write16 writes v as a little-endian uint16 into bytes at offset 0.
func Write16(bytes []byte, v uint16) {
	binary.LittleEndian.PutUint16(bytes, v)
}

// Write32 writes v as a little-endian uint32 into bytes at offset 0.
func Write32(bytes []byte, v uint32) {
	binary.LittleEndian.PutUint32(bytes, v)
}

// SubArray returns a slice of the input array from startIdx to endIdx (inclusive)
func SubArray(input []byte, startIdx int, endIdx int) []byte {
	size := endIdx - startIdx + 1
	output := make([]byte, size)
	copy(output, input[startIdx:endIdx+1])
	return output
}

// SubArrayFromStart returns a slice from startIdx to the end of the array
func SubArrayFromStart(input []byte, startIdx int) []byte {
	return SubArray(input, startIdx, len(input)-1)
}
