// Package party decodes the six-slot party and the 80-byte PC box
// Pokemon layout sharing the same encrypted-block algorithm:
// PID-XOR-OTID keystream decryption, PID-mod-24 substructure
// unshuffling, and batched species->types/ability resolution.
package party

import (
	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/schema"
)

// substructure names the four 12-byte blocks inside the decrypted
// 48-byte body.
type substructure int

const (
	growth substructure = iota
	attacks
	evsCondition
	misc
)

// substructureOrder is the compile-time table of the 24 orderings
// selected by PID mod 24. No string manipulation; a direct index.
var substructureOrder = [24][4]substructure{
	{growth, attacks, evsCondition, misc},
	{growth, attacks, misc, evsCondition},
	{growth, evsCondition, attacks, misc},
	{growth, evsCondition, misc, attacks},
	{growth, misc, attacks, evsCondition},
	{growth, misc, evsCondition, attacks},
	{attacks, growth, evsCondition, misc},
	{attacks, growth, misc, evsCondition},
	{attacks, evsCondition, growth, misc},
	{attacks, evsCondition, misc, growth},
	{attacks, misc, growth, evsCondition},
	{attacks, misc, evsCondition, growth},
	{evsCondition, growth, attacks, misc},
	{evsCondition, growth, misc, attacks},
	{evsCondition, attacks, growth, misc},
	{evsCondition, attacks, misc, growth},
	{evsCondition, misc, growth, attacks},
	{evsCondition, misc, attacks, growth},
	{misc, growth, attacks, evsCondition},
	{misc, growth, evsCondition, attacks},
	{misc, attacks, growth, evsCondition},
	{misc, attacks, evsCondition, growth},
	{misc, evsCondition, growth, attacks},
	{misc, evsCondition, attacks, growth},
}

// decryptBlock XORs the 48-byte encrypted body word-wise with the
// PID^OTID key, then unshuffles the four 12-byte substructures back
// into canonical (growth, attacks, evsCondition, misc) order.
func decryptBlock(raw []byte, pid, otid uint32) [schema.EncryptedBlockSize]byte {
	key := pid ^ otid

	var shuffled [schema.EncryptedBlockSize]byte
	for i := 0; i+4 <= schema.EncryptedBlockSize; i += 4 {
		word := encoding.Read32(raw, i) ^ key
		shuffled[i] = byte(word)
		shuffled[i+1] = byte(word >> 8)
		shuffled[i+2] = byte(word >> 16)
		shuffled[i+3] = byte(word >> 24)
	}

	order := substructureOrder[pid%24]
	var out [schema.EncryptedBlockSize]byte
	for slot, kind := range order {
		src := shuffled[slot*schema.SubstructureSize : (slot+1)*schema.SubstructureSize]
		copy(out[int(kind)*schema.SubstructureSize:], src)
	}
	return out
}

// encryptBlock is decryptBlock's inverse, used only by tests to
// exercise the round-trip law.
func encryptBlock(decoded [schema.EncryptedBlockSize]byte, pid, otid uint32) []byte {
	order := substructureOrder[pid%24]
	var shuffled [schema.EncryptedBlockSize]byte
	for slot, kind := range order {
		src := decoded[int(kind)*schema.SubstructureSize : (int(kind)+1)*schema.SubstructureSize]
		copy(shuffled[slot*schema.SubstructureSize:], src)
	}

	key := pid ^ otid
	raw := make([]byte, schema.EncryptedBlockSize)
	for i := 0; i+4 <= schema.EncryptedBlockSize; i += 4 {
		word := encoding.Read32(shuffled[:], i) ^ key
		raw[i] = byte(word)
		raw[i+1] = byte(word >> 8)
		raw[i+2] = byte(word >> 16)
		raw[i+3] = byte(word >> 24)
	}
	return raw
}
