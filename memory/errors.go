package memory

import "errors"

// ErrBridgeUnavailable is returned when the underlying emulator channel
// is closed.
var ErrBridgeUnavailable = errors.New("memory: bridge unavailable")
