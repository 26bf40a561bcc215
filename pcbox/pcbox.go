// Package pcbox decodes the 14-box, 30-slot PC storage system, reusing
// party's BoxPokemon decryption for each slot.
package pcbox

import (
	"github.com/fireredbridge/corebridge/party"
	"github.com/fireredbridge/corebridge/schema"
)

// Box is one 30-slot PC storage box. Empty slots (species==0) are
// omitted, matching the party decoder's occupied-slots convention,
// except a box's emptiness doesn't terminate decoding of later boxes —
// unlike the party array, boxes are independently addressed and
// fragmentation within one box is normal.
type Box struct {
	Index int             `json:"index"`
	Slots []party.Pokemon `json:"slots"`
}

// Storage is the full PC: every box plus which one is currently open
// in the UI.
type Storage struct {
	CurrentBox int   `json:"currentBox"`
	Boxes      []Box `json:"boxes"`
}

// Decode parses a schema.NumBoxes x schema.SlotsPerBox x
// schema.BoxPokemonSize batched range into a Storage. currentBox comes
// from a separate single-byte read (sCurrentBoxNum).
func Decode(raw []byte, currentBox int) Storage {
	st := Storage{CurrentBox: currentBox, Boxes: make([]Box, schema.NumBoxes)}
	for b := 0; b < schema.NumBoxes; b++ {
		box := Box{Index: b}
		for s := 0; s < schema.SlotsPerBox; s++ {
			off := (b*schema.SlotsPerBox + s) * schema.BoxPokemonSize
			// A short bridge read truncates storage, never panics.
			if off+schema.BoxPokemonSize > len(raw) {
				return st
			}
			slot := raw[off : off+schema.BoxPokemonSize]
			p := party.DecodeOne(slot)
			if p.Species == 0 {
				continue
			}
			box.Slots = append(box.Slots, p)
		}
		st.Boxes[b] = box
	}
	return st
}
