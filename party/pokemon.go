package party

import (
	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/schema"
	"github.com/fireredbridge/corebridge/text"
)

// Stats is a Pokemon's six computed battle stats, present on party
// members but not on boxed Pokemon.
type Stats struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	Speed     int `json:"speed"`
	SpAttack  int `json:"spAttack"`
	SpDefense int `json:"spDefense"`
}

// IVs are the six individual values, 5 bits each, packed into one
// 32-bit field alongside the egg and hidden-ability-slot bits.
type IVs struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	Speed     int `json:"speed"`
	SpAttack  int `json:"spAttack"`
	SpDefense int `json:"spDefense"`
}

// EVs are the six effort values, one byte each.
type EVs struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	Speed     int `json:"speed"`
	SpAttack  int `json:"spAttack"`
	SpDefense int `json:"spDefense"`
}

// Pokemon is one decoded party or box slot. Types and Ability are left
// zero-valued until resolved by ResolveSpeciesInfo's batched second
// pass.
type Pokemon struct {
	PID  uint32 `json:"pid"`
	OTID uint32 `json:"otid"`

	Nickname string `json:"nickname"`
	OTName   string `json:"otName"`
	Language uint8  `json:"language"`

	Species  uint16    `json:"species"`
	HeldItem uint16    `json:"heldItem"`
	Moves    [4]uint16 `json:"moves"`
	PP       [4]uint8  `json:"pp"`

	EVs         EVs  `json:"evs"`
	IVs         IVs  `json:"ivs"`
	IsEgg       bool `json:"isEgg"`
	AbilitySlot int  `json:"abilitySlot"`

	Types   [2]int `json:"types"`
	Ability int    `json:"ability"`

	Shiny bool `json:"shiny"`

	// Stats, Level, and Status are only populated for party slots
	// decoded via DecodeParty; box slots leave them zero.
	HasStats bool   `json:"hasStats"`
	Level    int    `json:"level"`
	Status   uint32 `json:"status"`
	Stats    Stats  `json:"stats"`
}

// decodeCommon fills the fields shared by the party and box layouts
// from the 32-byte header plus the decrypted 48-byte body.
func decodeCommon(raw []byte, pid, otid uint32) Pokemon {
	body := decryptBlock(raw[schema.PokemonEncryptedBlockOffset:schema.PokemonEncryptedBlockOffset+schema.EncryptedBlockSize], pid, otid)

	p := Pokemon{
		PID:      pid,
		OTID:     otid,
		Nickname: text.Decode(raw[schema.PokemonNicknameOffset:], schema.PokemonNicknameLen),
		OTName:   text.Decode(raw[schema.PokemonOTNameOffset:], schema.PokemonOTNameLen),
		Language: raw[schema.PokemonLanguageOffset],
	}

	growthBytes := body[growth*schema.SubstructureSize : (growth+1)*schema.SubstructureSize]
	p.Species = encoding.Read16(growthBytes, schema.GrowthSpeciesOffset)
	p.HeldItem = encoding.Read16(growthBytes, schema.GrowthHeldItemOffset)

	attackBytes := body[attacks*schema.SubstructureSize : (attacks+1)*schema.SubstructureSize]
	for i := 0; i < 4; i++ {
		p.Moves[i] = encoding.Read16(attackBytes, schema.AttacksMoveOffset+i*2)
		p.PP[i] = encoding.Read8(attackBytes, schema.AttacksPPOffset+i)
	}

	evBytes := body[evsCondition*schema.SubstructureSize : (evsCondition+1)*schema.SubstructureSize]
	p.EVs = EVs{
		HP:       int(encoding.Read8(evBytes, schema.EVsHPOffset+0)),
		Attack:   int(encoding.Read8(evBytes, schema.EVsHPOffset+1)),
		Defense:  int(encoding.Read8(evBytes, schema.EVsHPOffset+2)),
		Speed:    int(encoding.Read8(evBytes, schema.EVsHPOffset+3)),
		SpAttack: int(encoding.Read8(evBytes, schema.EVsHPOffset+4)),
		SpDefense: int(encoding.Read8(evBytes, schema.EVsHPOffset+5)),
	}

	miscBytes := body[misc*schema.SubstructureSize : (misc+1)*schema.SubstructureSize]
	ivsEggAbility := encoding.Read32(miscBytes, schema.MiscIVEggAbilityOffset)
	p.IVs = IVs{
		HP:        int(ivsEggAbility>>(0*schema.IVBits)) & schema.IVMask,
		Attack:    int(ivsEggAbility>>(1*schema.IVBits)) & schema.IVMask,
		Defense:   int(ivsEggAbility>>(2*schema.IVBits)) & schema.IVMask,
		Speed:     int(ivsEggAbility>>(3*schema.IVBits)) & schema.IVMask,
		SpAttack:  int(ivsEggAbility>>(4*schema.IVBits)) & schema.IVMask,
		SpDefense: int(ivsEggAbility>>(5*schema.IVBits)) & schema.IVMask,
	}
	p.IsEgg = ivsEggAbility&(1<<schema.IVEggBit) != 0
	if ivsEggAbility&(1<<schema.IVAbilityBit) != 0 {
		p.AbilitySlot = 1
	}

	p.Shiny = isShiny(pid, otid)

	return p
}

// isShiny applies the TID^SID^PIDhi^PIDlo < 8 shininess formula. otid packs TID in the low 16 bits and SID in the
// high 16 bits, matching the saveblock-2 trainer id layout.
func isShiny(pid, otid uint32) bool {
	tid := uint16(otid)
	sid := uint16(otid >> 16)
	pidLo := uint16(pid)
	pidHi := uint16(pid >> 16)
	return (tid^sid)^(pidLo^pidHi) < 8
}

// DecodeOne decodes a single raw Pokemon struct (PartySize- or
// BoxPokemon-layout) without its party-only stat block.
func DecodeOne(raw []byte) Pokemon {
	pid := encoding.Read32(raw, schema.PokemonPIDOffset)
	otid := encoding.Read32(raw, schema.PokemonOTIDOffset)
	return decodeCommon(raw, pid, otid)
}

// DecodeOneParty decodes a full schema.PokemonSize-byte party slot,
// including the unencrypted stat block appended after the encrypted
// body.
func DecodeOneParty(raw []byte) Pokemon {
	p := DecodeOne(raw)
	p.HasStats = true
	p.Status = encoding.Read32(raw, schema.PokemonStatusOffset)
	p.Level = int(raw[schema.PokemonLevelOffset])
	p.Stats = Stats{
		HP:        int(encoding.Read16(raw, schema.PokemonHPOffset)),
		Attack:    int(encoding.Read16(raw, schema.PokemonAttackOffset)),
		Defense:   int(encoding.Read16(raw, schema.PokemonDefenseOffset)),
		Speed:     int(encoding.Read16(raw, schema.PokemonSpeedOffset)),
		SpAttack:  int(encoding.Read16(raw, schema.PokemonSpAttackOffset)),
		SpDefense: int(encoding.Read16(raw, schema.PokemonSpDefenseOffset)),
	}
	return p
}

// DecodeParty decodes a full schema.PartySize x schema.PokemonSize
// batched range into occupied party slots, stopping at the first slot
// whose species or PID is zero.
func DecodeParty(raw []byte) []Pokemon {
	out := make([]Pokemon, 0, schema.PartySize)
	for i := 0; i < schema.PartySize; i++ {
		// A short bridge read truncates the party, never panics.
		if (i+1)*schema.PokemonSize > len(raw) {
			break
		}
		slot := raw[i*schema.PokemonSize : (i+1)*schema.PokemonSize]
		p := DecodeOneParty(slot)
		if p.Species == 0 || p.PID == 0 {
			break
		}
		out = append(out, p)
	}
	return out
}

// ApplyBattleTypeOverride replaces a party member's live types by
// index, used when a battler's ability (e.g. Color Change) has altered
// its type mid-battle.
func ApplyBattleTypeOverride(members []Pokemon, index int, types [2]int) {
	if index < 0 || index >= len(members) {
		return
	}
	members[index].Types = types
}
