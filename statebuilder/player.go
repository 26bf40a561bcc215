// Package statebuilder assembles the per-frame snapshot: player,
// visibility, map/collision/fog, events, dialog, battle, party, bag and
// PC, composed behind one entry point, Build.
package statebuilder

import (
	"fmt"

	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

// MovementMode is the player's current locomotion state.
type MovementMode string

const (
	MovementWalk     MovementMode = "WALK"
	MovementSurf     MovementMode = "SURF"
	MovementDive     MovementMode = "DIVE"
	MovementBike     MovementMode = "BIKE"
	MovementMachBike MovementMode = "MACH_BIKE"
	MovementAcroBike MovementMode = "ACRO_BIKE"
)

// Player is the decoded player snapshot.
type Player struct {
	X                        int             `json:"x"`
	Y                        int             `json:"y"`
	Facing                   schema.Facing   `json:"facing"`
	Elevation                uint8           `json:"elevation"`
	Surfing                  bool            `json:"surfing"`
	Biking                   bool            `json:"biking"`
	Diving                   bool            `json:"diving"`
	BikeType                 string          `json:"bikeType"`
	MovementMode             MovementMode    `json:"movementMode"`
	StrengthEnabled          bool            `json:"strengthEnabled"`
	SafariZoneStepsRemaining int             `json:"safariZoneStepsRemaining"`
	SafariZoneActive         bool            `json:"safariZoneActive"`
	Money                    uint32          `json:"money"`
	Badges                   map[string]bool `json:"badges"`
	MapGroup                 uint8           `json:"mapGroup"`
	MapNum                   uint8           `json:"mapNum"`
	FieldControlsLocked      bool            `json:"fieldControlsLocked"`
	InBattle                 bool            `json:"inBattle"`
	SecurityKey              uint32          `json:"-"`

	// sb1Ptr/sb2Ptr are the runtime saveblock base pointers, threaded
	// through to visibility computation so it doesn't re-derive them
	// with a second bus round trip.
	sb1Ptr, sb2Ptr schema.Address

	// flagsBytes is the full saveblock-1 flags blob, kept around so
	// visibility's flash/strength bits (sharing a byte with the system
	// flags already fetched here) don't need a second read either.
	flagsBytes []byte
}

// ImportantEvents is the monotonic progress-flag map.
type ImportantEvents map[string]bool

var eliteFourFlags = []string{
	"FLAG_DEFEATED_LORELEI", "FLAG_DEFEATED_BRUNO", "FLAG_DEFEATED_AGATHA", "FLAG_DEFEATED_LANCE",
}

// ReadPlayer performs the batched player-snapshot read:
// saveblock pointers, avatar flags, field-lock/in-battle bits, facing
// and elevation off the player's own object-event slot, the safari
// step counter, then a second batch (now that the saveblock-1 base
// pointer is known) for position/map location, money, the full flags
// blob and the security key.
func ReadPlayer(client *memory.Client, cat *schema.Catalog) (Player, ImportantEvents, error) {
	playerEventBase := cat.ObjectEventsAddr + schema.Address(schema.ObjectEventsPlayerIndex*schema.ObjectEventSize)

	first, err := client.ReadRanges([]memory.Range{
		{Addr: cat.SaveStateObjectPtrAddr, Len: 4},
		{Addr: cat.SecurityKeyPointerAddr, Len: 4},
		{Addr: cat.PlayerAvatarAddr, Len: 1},
		{Addr: cat.ScriptLockFieldControls, Len: 1},
		{Addr: cat.InBattleBitAddr, Len: 1},
		{Addr: playerEventBase + schema.ObjectEventFacingDirOffset, Len: 1},
		{Addr: playerEventBase + schema.ObjectEventElevationOffset, Len: 1},
		{Addr: cat.GSafariZoneStepCounterAddr, Len: 2},
	})
	if err != nil {
		return Player{}, nil, err
	}
	if !segmentsComplete(first, 4, 4, 1, 1, 1, 1, 1, 2) {
		return Player{}, nil, fmt.Errorf("statebuilder: short player snapshot read")
	}

	sb1Ptr := schema.Address(encoding.Read32(first[0], 0))
	sb2Ptr := schema.Address(encoding.Read32(first[1], 0))
	avatarFlags := first[2][0]
	p := Player{
		Facing:                   schema.FacingFromRaw(first[5][0]),
		Elevation:                first[6][0] & schema.ObjectEventCurrentElevationMask,
		Surfing:                  avatarFlags&schema.PlayerAvatarFlagSurfing != 0,
		Biking:                   avatarFlags&schema.PlayerAvatarFlagBiking != 0,
		Diving:                   avatarFlags&schema.PlayerAvatarFlagDiving != 0,
		BikeType:                 bikeType(avatarFlags),
		FieldControlsLocked:      first[3][0] != 0,
		InBattle:                 first[4][0]&schema.InBattleBitmask != 0,
		SafariZoneStepsRemaining: int(encoding.Read16(first[7], 0)),
		sb1Ptr:                   sb1Ptr,
		sb2Ptr:                   sb2Ptr,
	}
	p.MovementMode = movementMode(p)

	if sb1Ptr == 0 || sb2Ptr == 0 {
		return p, ImportantEvents{}, nil
	}

	second, err := client.ReadRanges([]memory.Range{
		// Covers offset 0x00 (player x,y) through SaveBlock1LocationOffset
		// (0x04: mapGroup, mapNum) in one range.
		{Addr: sb1Ptr, Len: 8},
		{Addr: sb1Ptr + schema.SaveBlock1MoneyOffset, Len: 4},
		{Addr: sb1Ptr + schema.SaveBlock1FlagsOffset, Len: schema.SaveBlock1FlagsByteLength},
		{Addr: sb2Ptr + schema.SaveBlock2SecurityKeyOffset, Len: 4},
	})
	if err != nil {
		return p, nil, err
	}
	if !segmentsComplete(second, 8, 4, 1, 4) {
		return p, nil, fmt.Errorf("statebuilder: short saveblock read")
	}

	posAndLocation := second[0]
	p.X = int(int16(encoding.Read16(posAndLocation, 0)))
	p.Y = int(int16(encoding.Read16(posAndLocation, 2)))
	p.MapGroup = posAndLocation[4]
	p.MapNum = posAndLocation[5]

	p.SecurityKey = encoding.Read32(second[3], 0)
	encMoney := encoding.Read32(second[1], 0)
	p.Money = encMoney ^ p.SecurityKey

	p.flagsBytes = second[2]
	p.SafariZoneActive = schema.FlagSet(p.flagsBytes, cat.Flag("FLAG_SYS_SAFARI_MODE")) || p.SafariZoneStepsRemaining > 0

	p.Badges = make(map[string]bool, len(cat.Badges))
	for _, b := range cat.Badges {
		p.Badges[b.ID] = schema.FlagSet(p.flagsBytes, b.FlagID)
	}
	p.StrengthEnabled = schema.FlagSet(p.flagsBytes, cat.Flag("FLAG_SYS_USE_STRENGTH"))

	events := importantEvents(cat, p.flagsBytes)
	return p, events, nil
}

// segmentsComplete reports whether every batched segment came back at
// least at the given length; a short bridge read fails the whole
// batch's decode rather than panicking on a truncated slice.
func segmentsComplete(segments [][]byte, lens ...int) bool {
	if len(segments) < len(lens) {
		return false
	}
	for i, n := range lens {
		if len(segments[i]) < n {
			return false
		}
	}
	return true
}

func bikeType(avatarFlags uint8) string {
	switch {
	case avatarFlags&schema.PlayerAvatarFlagMachBike != 0:
		return "MACH_BIKE"
	case avatarFlags&schema.PlayerAvatarFlagAcroBike != 0:
		return "ACRO_BIKE"
	default:
		return ""
	}
}

// movementMode picks one mutually-exclusive locomotion label, diving
// taking priority over surfing over biking over plain walking — the
// engine never combines these states.
func movementMode(p Player) MovementMode {
	switch {
	case p.Diving:
		return MovementDive
	case p.Surfing:
		return MovementSurf
	case p.BikeType == "MACH_BIKE":
		return MovementMachBike
	case p.BikeType == "ACRO_BIKE":
		return MovementAcroBike
	case p.Biking:
		return MovementBike
	default:
		return MovementWalk
	}
}

// importantEvents builds the monotonic progress map: several late-game
// flags are reset by the Hall of Fame script, so once
// FLAG_SYS_GAME_CLEAR is set every gated event stays "done" regardless
// of the underlying flag's current value.
func importantEvents(cat *schema.Catalog, flagsBytes []byte) ImportantEvents {
	hallOfFame := schema.FlagSet(flagsBytes, cat.Flag("FLAG_SYS_GAME_CLEAR"))
	read := func(name string) bool {
		if name == "FLAG_SYS_GAME_CLEAR" {
			return hallOfFame
		}
		return schema.FlagSet(flagsBytes, cat.Flag(name))
	}
	storyGate := func(name string) bool {
		return read(name) || hallOfFame
	}
	eliteFour := func() bool {
		if hallOfFame {
			return true
		}
		for _, f := range eliteFourFlags {
			if !read(f) {
				return false
			}
		}
		return true
	}

	return ImportantEvents{
		"EVENT_GOT_STARTER":                  read("FLAG_SYS_POKEMON_GET"),
		"EVENT_GOT_POKEDEX":                  read("FLAG_SYS_POKEDEX_GET"),
		"EVENT_SS_ANNE_LEFT":                 read("FLAG_HIDE_SS_ANNE"),
		"EVENT_BEAT_ROCKET_HIDEOUT_GIOVANNI": read("FLAG_HIDE_HIDEOUT_GIOVANNI"),
		"EVENT_GOT_POKE_FLUTE":               read("FLAG_GOT_POKE_FLUTE"),
		"EVENT_GOT_HM03":                     read("FLAG_GOT_HM03"),
		"EVENT_BEAT_SILPH_CO_GIOVANNI":       read("FLAG_HIDE_SAFFRON_ROCKETS"),
		"EVENT_BEAT_LANCE":                   storyGate("FLAG_DEFEATED_LANCE"),
		"EVENT_BEAT_CHAMPION_RIVAL":          storyGate("FLAG_DEFEATED_CHAMP"),
		"EVENT_BEAT_ELITE_FOUR":              eliteFour(),
		"EVENT_HALL_OF_FAME":                 hallOfFame,
	}
}
