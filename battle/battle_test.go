package battle

import (
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

func newTestCatalog() *schema.Catalog {
	return &schema.Catalog{
		InBattleBitAddr:         0x3000,
		GBattleTypeFlagsAddr:    0x3000,
		BattleStateAddr:         0x4000,
		BattlerPartyIndexesAddr: 0x5000,
		AbsentBattlerFlagsAddr:  0x5010,
	}
}

func putBattler(raw []byte, slot int, species uint16, level, hp, maxHP int) {
	base := slot * schema.BattlePokemonSize
	mon := raw[base : base+schema.BattlePokemonSize]
	encoding.Write16(mon[schema.BattlePokemonSpeciesOffset:], species)
	mon[schema.BattlePokemonLevelOffset] = uint8(level)
	encoding.Write16(mon[schema.BattlePokemonHPOffset:], uint16(hp))
	encoding.Write16(mon[schema.BattlePokemonMaxHPOffset:], uint16(maxHP))
	mon[schema.BattlePokemonTypesOffset] = 10
	mon[schema.BattlePokemonTypesOffset+1] = 10
}

func TestIsActive_ReadsInBattleBitmask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cat := newTestCatalog()
	link := memory.NewMockLink(ctrl)
	client := memory.NewClient(link, nil)

	link.EXPECT().ReadU8(cat.InBattleBitAddr).Return(schema.InBattleBitmask, nil)
	active, err := IsActive(client, cat)
	require.NoError(t, err)
	require.True(t, active)

	link.EXPECT().ReadU8(cat.InBattleBitAddr).Return(uint8(0), nil)
	active, err = IsActive(client, cat)
	require.NoError(t, err)
	require.False(t, active)
}

func TestRead_SingleBattle_SlotsZeroAndOneAreOppositeSides(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cat := newTestCatalog()
	link := memory.NewMockLink(ctrl)
	client := memory.NewClient(link, nil)

	typeFlags := make([]byte, 4) // no double-battle bit set
	mons := make([]byte, schema.BattlerCount*schema.BattlePokemonSize)
	putBattler(mons, 0, 1, 50, 100, 150)
	putBattler(mons, 1, 2, 48, 80, 120)
	partyIdx := make([]byte, schema.BattlerCount*schema.BattlerPartyIndexSize)
	absent := []byte{0}

	link.EXPECT().ReadU8(cat.InBattleBitAddr).Return(schema.InBattleBitmask, nil)
	link.EXPECT().ReadRanges(gomock.Any()).Return([][]byte{typeFlags, mons, partyIdx, absent}, nil)

	state, err := Read(client, cat)
	require.NoError(t, err)
	require.True(t, state.IsActive)
	require.Len(t, state.Player, 1)
	require.Len(t, state.Enemy, 1)
	require.Equal(t, uint16(1), state.Player[0].Species)
	require.Equal(t, uint16(2), state.Enemy[0].Species)
}

func TestRead_DoubleBattle_EvenSlotsArePlayerSide(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cat := newTestCatalog()
	link := memory.NewMockLink(ctrl)
	client := memory.NewClient(link, nil)

	typeFlags := make([]byte, 4)
	encoding.Write32(typeFlags, schema.BattleTypeFlagDouble)
	mons := make([]byte, schema.BattlerCount*schema.BattlePokemonSize)
	for slot, sp := range []uint16{1, 2, 3, 4} {
		putBattler(mons, slot, sp, 50, 100, 150)
	}
	partyIdx := make([]byte, schema.BattlerCount*schema.BattlerPartyIndexSize)
	encoding.Write16(partyIdx[2*schema.BattlerPartyIndexSize:], 1)
	encoding.Write16(partyIdx[3*schema.BattlerPartyIndexSize:], 1)
	absent := []byte{1 << 2} // battler 2 absent

	link.EXPECT().ReadU8(cat.InBattleBitAddr).Return(schema.InBattleBitmask, nil)
	link.EXPECT().ReadRanges(gomock.Any()).Return([][]byte{typeFlags, mons, partyIdx, absent}, nil)

	state, err := Read(client, cat)
	require.NoError(t, err)
	require.Len(t, state.Player, 2)
	require.Len(t, state.Enemy, 2)
	require.True(t, state.Player[1].Absent) // slot 2
}

func TestRead_NotInBattle_SkipsBattlerRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cat := newTestCatalog()
	link := memory.NewMockLink(ctrl)
	client := memory.NewClient(link, nil)

	// With the in-battle bit clear, no battler read may be issued — the
	// mock would fail on an unexpected ReadRanges call.
	link.EXPECT().ReadU8(cat.InBattleBitAddr).Return(uint8(0), nil)

	state, err := Read(client, cat)
	require.NoError(t, err)
	require.False(t, state.IsActive)
}

func TestRead_NoBattleStateAddr_ReturnsInactive(t *testing.T) {
	state, err := Read(memory.NewClient(nil, nil), &schema.Catalog{})
	require.NoError(t, err)
	require.False(t, state.IsActive)
}
