package input

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshalCommandStringShorthand(t *testing.T) {
	cmd, err := UnmarshalCommand(json.RawMessage(`"up"`))
	require.NoError(t, err)
	require.Equal(t, KindControl, cmd.Kind)
	require.Equal(t, "up", cmd.Name)
	require.True(t, cmd.IsDirectional())
}

func TestUnmarshalCommandPress(t *testing.T) {
	cmd, err := UnmarshalCommand(json.RawMessage(`{"type":"press","buttons":["A","B"]}`))
	require.NoError(t, err)
	require.Equal(t, KindPress, cmd.Kind)
	require.Equal(t, []string{"A", "B"}, cmd.Buttons)
	require.True(t, cmd.IsALike())
}

func TestUnmarshalCommandHold(t *testing.T) {
	cmd, err := UnmarshalCommand(json.RawMessage(`{"type":"hold","button":"Up","frames":30}`))
	require.NoError(t, err)
	require.Equal(t, KindHold, cmd.Kind)
	require.Equal(t, "Up", cmd.Button)
	require.Equal(t, 30, cmd.Frames)
}

func TestUnmarshalCommandControlStatus(t *testing.T) {
	cmd, err := UnmarshalCommand(json.RawMessage(`{"type":"controlStatus"}`))
	require.NoError(t, err)
	require.Equal(t, KindControlStatus, cmd.Kind)
}

func TestUnmarshalCommandRejectsUnknownType(t *testing.T) {
	_, err := UnmarshalCommand(json.RawMessage(`{"type":"fly"}`))
	require.Error(t, err)
}

func TestUnmarshalCommandRejectsEmptyPress(t *testing.T) {
	_, err := UnmarshalCommand(json.RawMessage(`{"type":"press","buttons":[]}`))
	require.Error(t, err)
}

func TestParseCommandsMixedShapes(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`"a"`),
		json.RawMessage(`{"type":"hold","button":"B","frames":60}`),
		json.RawMessage(`{"type":"controlStatus"}`),
	}
	cmds, err := ParseCommands(raw)
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	require.Equal(t, KindControl, cmds[0].Kind)
	require.Equal(t, KindHold, cmds[1].Kind)
	require.Equal(t, KindControlStatus, cmds[2].Kind)
}

func TestCommandIsALike(t *testing.T) {
	require.True(t, Command{Kind: KindControl, Name: "a"}.IsALike())
	require.True(t, Command{Kind: KindControl, Name: "a_until_end_of_dialog"}.IsALike())
	require.True(t, Command{Kind: KindPress, Buttons: []string{"Start", "a"}}.IsALike())
	require.False(t, Command{Kind: KindControl, Name: "b"}.IsALike())
	require.False(t, Command{Kind: KindHold, Button: "A"}.IsALike())
}
