package memory

import (
	"fmt"

	"github.com/fireredbridge/corebridge/log"
	"github.com/fireredbridge/corebridge/schema"
)

// Client is the typed front door every decoder in this module reads
// through. It wraps a Link, turns transport errors into this
// package's error taxonomy, and accounts calls via a nested Scope stack.
type Client struct {
	link   Link
	logger log.Logger
	scope  *Scope
}

// NewClient wraps link with metrics accounting. A nil logger falls back
// to the package-wide global logger.
func NewClient(link Link, logger log.Logger) *Client {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Client{link: link, logger: logger}
}

// BeginScope opens a new metrics scope nested under any scope already
// open on this client. Callers must Close it, typically via defer.
func (c *Client) BeginScope() *Scope {
	s := &Scope{client: c, parent: c.scope}
	c.scope = s
	return s
}

func (c *Client) ReadU8(addr schema.Address) (uint8, error) {
	v, err := c.link.ReadU8(addr)
	if c.scope != nil {
		c.scope.recordScalarRead()
	}
	if err != nil {
		return 0, fmt.Errorf("memory: read u8 at %#x: %w", addr, err)
	}
	return v, nil
}

func (c *Client) ReadU16(addr schema.Address) (uint16, error) {
	v, err := c.link.ReadU16(addr)
	if c.scope != nil {
		c.scope.recordScalarRead()
	}
	if err != nil {
		return 0, fmt.Errorf("memory: read u16 at %#x: %w", addr, err)
	}
	return v, nil
}

func (c *Client) ReadU32(addr schema.Address) (uint32, error) {
	v, err := c.link.ReadU32(addr)
	if c.scope != nil {
		c.scope.recordScalarRead()
	}
	if err != nil {
		return 0, fmt.Errorf("memory: read u32 at %#x: %w", addr, err)
	}
	return v, nil
}

// ReadRange reads length bytes starting at addr. A short read (fewer
// bytes than requested) is returned as-is; callers that need an exact
// length check it themselves.
func (c *Client) ReadRange(addr schema.Address, length int) ([]byte, error) {
	b, err := c.link.ReadRange(addr, length)
	if c.scope != nil {
		c.scope.recordRange(length, len(b))
	}
	if err != nil {
		return nil, fmt.Errorf("memory: read range at %#x len %d: %w", addr, length, err)
	}
	return b, nil
}

// ReadRanges batches several range reads into a single round trip
//, returning segments in request order.
func (c *Client) ReadRanges(ranges []Range) ([][]byte, error) {
	segments, err := c.link.ReadRanges(ranges)
	if c.scope != nil {
		requested := make([]int, len(ranges))
		returned := make([]int, len(ranges))
		for i, r := range ranges {
			requested[i] = r.Len
			if i < len(segments) {
				returned[i] = len(segments[i])
			}
		}
		c.scope.recordRanges(requested, returned)
	}
	if err != nil {
		return nil, fmt.Errorf("memory: read %d ranges: %w", len(ranges), err)
	}
	return segments, nil
}

func (c *Client) Control(command string) error {
	if c.scope != nil {
		c.scope.recordScalarRead()
	}
	if err := c.link.Control(command); err != nil {
		return fmt.Errorf("memory: control %q: %w", command, err)
	}
	return nil
}

func (c *Client) Press(buttons []string) error {
	if c.scope != nil {
		c.scope.recordScalarRead()
	}
	if err := c.link.Press(buttons); err != nil {
		return fmt.Errorf("memory: press %v: %w", buttons, err)
	}
	return nil
}

func (c *Client) Hold(button string, frames int) error {
	if c.scope != nil {
		c.scope.recordScalarRead()
	}
	if err := c.link.Hold(button, frames); err != nil {
		return fmt.Errorf("memory: hold %s for %d frames: %w", button, frames, err)
	}
	return nil
}

func (c *Client) ControlStatus() (string, error) {
	status, err := c.link.ControlStatus()
	if c.scope != nil {
		c.scope.recordScalarRead()
	}
	if err != nil {
		return "", fmt.Errorf("memory: control status: %w", err)
	}
	return status, nil
}
