// Package battle reads the active battler structs when IN_BATTLE is
// set, producing live per-side Pokemon views with battle-time type
// overrides (e.g. Color Change) that the party decoder's default
// species types don't capture.
package battle

import (
	"fmt"

	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

// Side names which trainer a battler belongs to.
type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

// Battler is one decoded gBattleMons slot.
type Battler struct {
	Slot       int    `json:"slot"`
	Side       Side   `json:"side"`
	PartyIndex int    `json:"partyIndex"`
	Species    uint16 `json:"species"`
	Level      int    `json:"level"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"maxHp"`
	Status     uint32 `json:"status"`
	Types      [2]int `json:"types"`
	Ability    int    `json:"ability"`
	Absent     bool   `json:"absent"`
}

// State is the battle reader's output.
type State struct {
	IsActive bool      `json:"isActive"`
	Player   []Battler `json:"player"`
	Enemy    []Battler `json:"enemy"`
}

// IsActive reports whether the IN_BATTLE bit is currently set.
func IsActive(client *memory.Client, cat *schema.Catalog) (bool, error) {
	if cat.InBattleBitAddr == 0 {
		return false, nil
	}
	v, err := client.ReadU8(cat.InBattleBitAddr)
	if err != nil {
		return false, err
	}
	return v&schema.InBattleBitmask != 0, nil
}

// Read performs one batched read — per-battler position
// (derived from slot parity and the double-battle flag), party index,
// absent flag, and the BattlerCount x BattlePokemon block — and
// classifies each battler to its side.
func Read(client *memory.Client, cat *schema.Catalog) (State, error) {
	if cat.BattleStateAddr == 0 {
		return State{}, nil
	}
	active, err := IsActive(client, cat)
	if err != nil {
		return State{}, err
	}
	if !active {
		return State{}, nil
	}

	ranges := []memory.Range{
		{Addr: cat.GBattleTypeFlagsAddr, Len: 4},
		{Addr: cat.BattleStateAddr, Len: schema.BattlerCount * schema.BattlePokemonSize},
	}
	if cat.BattlerPartyIndexesAddr != 0 {
		ranges = append(ranges, memory.Range{Addr: cat.BattlerPartyIndexesAddr, Len: schema.BattlerCount * schema.BattlerPartyIndexSize})
	}
	if cat.AbsentBattlerFlagsAddr != 0 {
		ranges = append(ranges, memory.Range{Addr: cat.AbsentBattlerFlagsAddr, Len: schema.AbsentBattlerFlagsSize})
	}

	segments, err := client.ReadRanges(ranges)
	if err != nil {
		return State{}, err
	}
	if len(segments) < len(ranges) || len(segments[0]) < 4 {
		return State{}, fmt.Errorf("battle: short battler read")
	}

	typeFlags := encoding.Read32(segments[0], 0)
	double := typeFlags&schema.BattleTypeFlagDouble != 0

	monsRaw := segments[1]
	idx := 2
	var partyIndexes []byte
	if cat.BattlerPartyIndexesAddr != 0 {
		partyIndexes = segments[idx]
		idx++
	}
	var absentFlags uint8
	if cat.AbsentBattlerFlagsAddr != 0 && len(segments[idx]) > 0 {
		absentFlags = segments[idx][0]
	}

	state := State{IsActive: true}
	for slot := 0; slot < schema.BattlerCount; slot++ {
		base := slot * schema.BattlePokemonSize
		if base+schema.BattlePokemonSize > len(monsRaw) {
			break
		}
		mon := monsRaw[base : base+schema.BattlePokemonSize]
		if encoding.Read16(mon, schema.BattlePokemonSpeciesOffset) == 0 {
			continue
		}

		b := Battler{
			Slot:    slot,
			Species: encoding.Read16(mon, schema.BattlePokemonSpeciesOffset),
			Level:   int(mon[schema.BattlePokemonLevelOffset]),
			HP:      int(encoding.Read16(mon, schema.BattlePokemonHPOffset)),
			MaxHP:   int(encoding.Read16(mon, schema.BattlePokemonMaxHPOffset)),
			Status:  encoding.Read32(mon, schema.BattlePokemonStatusOffset),
			Types:   [2]int{int(mon[schema.BattlePokemonTypesOffset]), int(mon[schema.BattlePokemonTypesOffset+1])},
			Ability: int(mon[schema.BattlePokemonAbilityOffset]),
			Side:    sideForSlot(slot, double),
			Absent:  absentFlags&(1<<uint(slot)) != 0,
		}
		if (slot+1)*schema.BattlerPartyIndexSize <= len(partyIndexes) {
			b.PartyIndex = int(encoding.Read16(partyIndexes, slot*schema.BattlerPartyIndexSize))
		}

		switch b.Side {
		case SidePlayer:
			state.Player = append(state.Player, b)
		case SideEnemy:
			state.Enemy = append(state.Enemy, b)
		}
	}

	return state, nil
}

// sideForSlot maps a battler slot to its side. In a single battle only
// slots 0 (player) and 1 (enemy) are active; in a double battle slots
// 0/2 are the player's side and 1/3 the enemy's.
func sideForSlot(slot int, double bool) Side {
	if !double && slot > 1 {
		return SideEnemy
	}
	if slot%2 == 0 {
		return SidePlayer
	}
	return SideEnemy
}
