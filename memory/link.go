// Package memory implements the typed, metrics-accounted memory client
// this bridge reads every decoded entity through. The actual
// emulator IPC wire is an external collaborator; this package only
// specifies and consumes the Link interface it talks to.
package memory

import "github.com/fireredbridge/corebridge/schema"

// Range is one (address, length) read request, used by ReadRanges to
// batch several reads into a single round trip.
type Range struct {
	Addr schema.Address
	Len  int
}

// Link is the consumed interface to the emulator's IPC wire. A
// concrete Link is supplied by the host application;
// this module never opens sockets or pipes itself.
type Link interface {
	ReadU8(addr schema.Address) (uint8, error)
	ReadU16(addr schema.Address) (uint16, error)
	ReadU32(addr schema.Address) (uint32, error)

	// ReadRange returns up to length bytes starting at addr. A transient
	// short read is surfaced as a shorter slice, not an error.
	ReadRange(addr schema.Address, length int) ([]byte, error)

	// ReadRanges batches several range reads into one round trip,
	// returning the segments in request order.
	ReadRanges(ranges []Range) ([][]byte, error)

	Control(command string) error
	Press(buttons []string) error
	Hold(button string, frames int) error
	ControlStatus() (string, error)
}
