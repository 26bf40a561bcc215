// Package input implements the synchronous input-sequencing
// controller: it dispatches a heterogeneous command list against the
// emulator's input channel, waits on observable state transitions,
// detects interruptions and collision streaks, and emits a per-input
// trace (including fog deltas) alongside the usual before/after state.
package input

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind discriminates one accepted command shape.
type Kind string

const (
	KindPress         Kind = "press"
	KindHold          Kind = "hold"
	KindControl       Kind = "control"
	KindControlStatus Kind = "controlStatus"
)

// directionalControls is the closed set of higher-level control()
// names with movement semantics. Anything outside this set is still passed
// through to the memory client's Control call — the bridge's control
// vocabulary is owned by the emulator side, not duplicated here — but
// only these names get the directional/face-only wait-policy treatment
// a_until_end_of_dialog and the collision streak care about.
var directionalControls = map[string]bool{
	"up": true, "down": true, "left": true, "right": true,
	"faceUp": true, "faceDown": true, "faceLeft": true, "faceRight": true,
}

// Command is one parsed entry from a sendCommands request.
type Command struct {
	Kind Kind

	// Press
	Buttons []string

	// Hold
	Button string
	Frames int

	// Control / ControlStatus
	Name string

	// Raw is the command exactly as given, kept for trace/log display.
	Raw string
}

// IsDirectional reports whether this is one of the eight overworld
// directional controls (the four moves and the four face-only turns).
func (c Command) IsDirectional() bool {
	return c.Kind == KindControl && directionalControls[c.Name]
}

// IsALike reports whether this command presses the A button in any
// form — the only shape that can trigger a dialog/script transition
// the pre/post passability diff cares about.
func (c Command) IsALike() bool {
	switch c.Kind {
	case KindControl:
		return c.Name == "a" || c.Name == "a_until_end_of_dialog"
	case KindPress:
		for _, b := range c.Buttons {
			if strings.EqualFold(b, "a") {
				return true
			}
		}
	}
	return false
}

func (c Command) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	return string(c.Kind)
}

// MarshalJSON re-emits the command exactly as it arrived, so
// remaining_keys carries the unexecuted tail verbatim.
func (c Command) MarshalJSON() ([]byte, error) {
	if c.Raw != "" {
		if json.Valid([]byte(c.Raw)) {
			return []byte(c.Raw), nil
		}
		return json.Marshal(c.Raw)
	}
	return json.Marshal(string(c.Kind))
}

// jsonCommand is the wire shape of one object-form command entry.
// Bare JSON strings are handled separately in UnmarshalCommand — they
// shorthand a control() call by name.
type jsonCommand struct {
	Type    string   `json:"type"`
	Buttons []string `json:"buttons"`
	Button  string   `json:"button"`
	Frames  int      `json:"frames"`
	Name    string   `json:"name"`
}

// UnmarshalCommand parses one raw JSON command entry, handling both
// the bare-string control() shorthand and the full object forms.
func UnmarshalCommand(raw json.RawMessage) (Command, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return Command{Kind: KindControl, Name: asString, Raw: asString}, nil
	}

	var jc jsonCommand
	if err := json.Unmarshal(raw, &jc); err != nil {
		return Command{}, fmt.Errorf("input: invalid command %s: %w", string(raw), err)
	}

	switch Kind(jc.Type) {
	case KindPress:
		if len(jc.Buttons) == 0 {
			return Command{}, fmt.Errorf("input: press command requires buttons")
		}
		return Command{Kind: KindPress, Buttons: jc.Buttons, Raw: string(raw)}, nil
	case KindHold:
		if jc.Button == "" {
			return Command{}, fmt.Errorf("input: hold command requires button")
		}
		return Command{Kind: KindHold, Button: jc.Button, Frames: jc.Frames, Raw: string(raw)}, nil
	case KindControl:
		if jc.Name == "" {
			return Command{}, fmt.Errorf("input: control command requires name")
		}
		return Command{Kind: KindControl, Name: jc.Name, Raw: string(raw)}, nil
	case KindControlStatus:
		return Command{Kind: KindControlStatus, Raw: string(raw)}, nil
	default:
		return Command{}, fmt.Errorf("input: unknown command type %q", jc.Type)
	}
}

// ParseCommands parses every entry of a sendCommands request body.
func ParseCommands(raw []json.RawMessage) ([]Command, error) {
	out := make([]Command, 0, len(raw))
	for i, r := range raw {
		cmd, err := UnmarshalCommand(r)
		if err != nil {
			return nil, fmt.Errorf("input: command %d: %w", i, err)
		}
		out = append(out, cmd)
	}
	return out, nil
}
