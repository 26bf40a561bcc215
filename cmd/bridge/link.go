package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

// tcpLink is a minimal newline-delimited-JSON memory.Link over a TCP
// socket. The emulator IPC wire's real protocol is an external
// collaborator; this is just enough transport for cmd/bridge to
// drive a real Link end to end against a host-side bridge listener.
type tcpLink struct {
	conn   net.Conn
	reader *bufio.Reader
}

func dialTCPLink(addr string, timeout time.Duration) (*tcpLink, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("link: dial %s: %w", addr, err)
	}
	return &tcpLink{conn: conn, reader: bufio.NewReader(conn)}, nil
}

func (l *tcpLink) Close() error {
	return l.conn.Close()
}

type wireRequest struct {
	Op      string         `json:"op"`
	Addr    schema.Address `json:"addr,omitempty"`
	Len     int            `json:"len,omitempty"`
	Ranges  []memory.Range `json:"ranges,omitempty"`
	Command string         `json:"command,omitempty"`
	Button  string         `json:"button,omitempty"`
	Buttons []string       `json:"buttons,omitempty"`
	Frames  int            `json:"frames,omitempty"`
}

type wireResponse struct {
	Value    uint32   `json:"value"`
	Bytes    string   `json:"bytes"`
	Segments []string `json:"segments"`
	Status   string   `json:"status"`
	Error    string   `json:"error"`
}

func (l *tcpLink) roundTrip(req wireRequest) (wireResponse, error) {
	enc := json.NewEncoder(l.conn)
	if err := enc.Encode(req); err != nil {
		return wireResponse{}, fmt.Errorf("link: write %s: %w", req.Op, err)
	}
	line, err := l.reader.ReadBytes('\n')
	if err != nil {
		return wireResponse{}, fmt.Errorf("link: %w: read %s", memory.ErrBridgeUnavailable, req.Op)
	}
	var resp wireResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return wireResponse{}, fmt.Errorf("link: decode %s response: %w", req.Op, err)
	}
	if resp.Error != "" {
		return wireResponse{}, fmt.Errorf("link: %s: %s", req.Op, resp.Error)
	}
	return resp, nil
}

func (l *tcpLink) ReadU8(addr schema.Address) (uint8, error) {
	resp, err := l.roundTrip(wireRequest{Op: "readU8", Addr: addr, Len: 1})
	return uint8(resp.Value), err
}

func (l *tcpLink) ReadU16(addr schema.Address) (uint16, error) {
	resp, err := l.roundTrip(wireRequest{Op: "readU16", Addr: addr, Len: 2})
	return uint16(resp.Value), err
}

func (l *tcpLink) ReadU32(addr schema.Address) (uint32, error) {
	resp, err := l.roundTrip(wireRequest{Op: "readU32", Addr: addr, Len: 4})
	return resp.Value, err
}

func (l *tcpLink) ReadRange(addr schema.Address, length int) ([]byte, error) {
	resp, err := l.roundTrip(wireRequest{Op: "readRange", Addr: addr, Len: length})
	if err != nil {
		return nil, err
	}
	return decodeHex(resp.Bytes), nil
}

func (l *tcpLink) ReadRanges(ranges []memory.Range) ([][]byte, error) {
	resp, err := l.roundTrip(wireRequest{Op: "readRanges", Ranges: ranges})
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(resp.Segments))
	for i, s := range resp.Segments {
		out[i] = decodeHex(s)
	}
	return out, nil
}

func (l *tcpLink) Control(command string) error {
	_, err := l.roundTrip(wireRequest{Op: "control", Command: command})
	return err
}

func (l *tcpLink) Press(buttons []string) error {
	_, err := l.roundTrip(wireRequest{Op: "press", Buttons: buttons})
	return err
}

func (l *tcpLink) Hold(button string, frames int) error {
	_, err := l.roundTrip(wireRequest{Op: "hold", Button: button, Frames: frames})
	return err
}

func (l *tcpLink) ControlStatus() (string, error) {
	resp, err := l.roundTrip(wireRequest{Op: "controlStatus"})
	return resp.Status, err
}

// Reset, Screenshot and SaveState are the emulator IPC ops no decoder
// reads through; screenshot file handoff and savestate rotation are
// external collaborators, so these just forward the request and let
// the caller decide what to do with the outcome.
func (l *tcpLink) Reset() error {
	_, err := l.roundTrip(wireRequest{Op: "reset"})
	return err
}

func (l *tcpLink) Screenshot(path string) error {
	_, err := l.roundTrip(wireRequest{Op: "screenshot", Command: path})
	return err
}

func (l *tcpLink) SaveState(path string) error {
	_, err := l.roundTrip(wireRequest{Op: "saveState", Command: path})
	return err
}

func decodeHex(s string) []byte {
	out := make([]byte, len(s)/2)
	for i := range out {
		hi := hexDigit(s[i*2])
		lo := hexDigit(s[i*2+1])
		out[i] = hi<<4 | lo
	}
	return out
}

func hexDigit(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	default:
		return 0
	}
}
