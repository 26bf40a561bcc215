package schema

// Struct layout constants. Unlike the Address fields on Catalog, these are
// fixed byte offsets/sizes/masks baked into the compiled ROM's struct
// layouts — they don't need symbol resolution, only the base addresses do.

// VisibleTextBufferLen bounds how much of the field-message string
// buffer (gStringVar4) the dialog snapshot reads; long messages are
// truncated, the terminator usually lands far earlier.
const VisibleTextBufferLen = 200

// GBA cartridge header: the 12-byte game title at its fixed address,
// read once to report which ROM the bridge is attached to.
const (
	ROMHeaderTitleAddr Address = 0x080000A0
	ROMHeaderTitleLen          = 12
)

// Map grid cell packing.
const (
	MapGridMetatileIDMask uint16 = 0x03FF
	MapGridCollisionMask  uint16 = 0x0C00
	MapGridCollisionShift        = 10
	MapGridElevationMask  uint16 = 0xF000
	MapGridElevationShift       = 12
	MapGridUndefined      uint16 = 0x03FF
)

// Map layout / tileset offsets.
const (
	MapHeaderMapLayoutOffset     = 0x00
	MapHeaderMapEventsOffset     = 0x04
	MapHeaderMapConnectionsOffset = 0x0C
	MapHeaderCaveOffset          = 0x17
	MapHeaderMapLayoutIDOffset   = 0x18

	MapLayoutWidthOffset             = 0x00
	MapLayoutHeightOffset            = 0x04
	MapLayoutMapGridOffset           = 0x08
	MapLayoutPrimaryTilesetOffset    = 0x0C
	MapLayoutSecondaryTilesetOffset  = 0x10

	TilesetMetatileAttributesPointerOffset = 0x10
	PrimaryTilesetMetatileCount            = 512
	SecondaryTilesetMetatileCount          = 512

	BackupMapLayoutWidthOffset = 0x00
	BackupMapLayoutHeightOffset = 0x04
	BackupMapDataPtrOffset      = 0x08

	BytesPerTile = 2
	MapOffset    = 7 // VMap padding on every side
)

// Map events.
const (
	MapEventsObjectEventCountOffset  = 0x00
	MapEventsObjectEventsPointerOffset = 0x04
	MapEventsWarpEventCountOffset    = 0x08
	MapEventsWarpEventsPointerOffset = 0x0C
	MapEventsBGEventCountOffset      = 0x14
	MapEventsBGEventsPointerOffset   = 0x18

	WarpEventSize          = 8
	WarpEventXOffset       = 0x00
	WarpEventYOffset       = 0x02
	WarpEventElevationOffset = 0x03
	WarpEventWarpIDOffset  = 0x04
	WarpEventMapNumOffset  = 0x05
	WarpEventMapGroupOffset = 0x06

	BGEventSize               = 0x10
	BGEventKindOffset         = 0x05
	BGEventElevationOffset    = 0x04
	BGEventScriptPointerOffset = 0x08
	BGEventKindScript         = 0
	BGEventKindHiddenItem     = 5
	BGEventKindSecretBase     = 6

	MapConnectionSize                       = 0x0C
	MapConnectionDirectionOffset            = 0x00
	MapConnectionOffsetOffset                = 0x04
	MapConnectionMapGroupOffset              = 0x08
	MapConnectionMapNumOffset                = 0x09
	MapConnectionsCountOffset                = 0x00
	MapConnectionsConnectionPointerOffset    = 0x04
)

// gObjectEvents.
const (
	ObjectEventSize                = 0x24
	ObjectEventCount                = 16
	ObjectEventsPlayerIndex          = 0
	ObjectEventLocalIDOffset          = 0x08
	ObjectEventGraphicsIDOffset       = 0x05
	ObjectEventMovementTypeOffset     = 0x06
	ObjectEventMapNumOffset           = 0x09
	ObjectEventMapGroupOffset         = 0x0A
	ObjectEventFlagsOffset            = 0x00
	ObjectEventActiveBit              = 0
	ObjectEventOffscreenBit           = 9
	ObjectEventXOffset                = 0x10
	ObjectEventYOffset                = 0x12
	ObjectEventElevationOffset        = 0x14
	ObjectEventCurrentElevationMask   = 0x0F
	ObjectEventFacingDirOffset        = 0x15

	ObjectEventTemplateSize                 = 0x18
	ObjectEventTemplatesCount                = 64
	ObjectEventTemplateLocalIDOffset          = 0x00
	ObjectEventTemplateGraphicsIDOffset        = 0x01
	ObjectEventTemplateXOffset                = 0x04
	ObjectEventTemplateYOffset                = 0x06
	ObjectEventTemplateElevationOffset          = 0x08
	ObjectEventTemplateMovementTypeOffset       = 0x09
	ObjectEventTemplateMovementRangeOffset       = 0x0A
	ObjectEventTemplateFlagIDOffset              = 0x0C
)

// SaveBlock 1/2 layout.
const (
	SaveBlock1LocationOffset      = 0x04
	SaveBlock1MoneyOffset         = 0x290
	SaveBlock1FlagsOffset         = 0x1270
	SaveBlock1FlagsByteLength     = 0x12C // 2400 flag bits, covers every known FLAG_* id
	SaveBlock1FlashLevelOffset    = 0x30
	SaveBlock1ObjectEventTemplatesOffset = 0x0EA8

	SaveBlock2SecurityKeyOffset      = 0x0F20
	SaveBlock2PyramidLightRadiusOffset = 0x0E68
)

// IN_BATTLE / script context / palette fade.
const (
	InBattleBitmask uint8 = 0x02

	ScriptContextModeOffset      = 0x00
	ScriptContextNativePtrOffset = 0x04
	ScriptModeStopped            = 0
	ScriptModeNative             = 1

	PaletteFadeBitfieldsOffset = 0x04
	PaletteFadeActiveMask32    = uint32(1) << 31

	GMainCallback2Offset = 0x00
)

// Player avatar flags.
const (
	PlayerAvatarFlagMachBike = 1 << 0
	PlayerAvatarFlagAcroBike = 1 << 1
	PlayerAvatarFlagSurfing  = 1 << 2
	PlayerAvatarFlagBiking   = PlayerAvatarFlagMachBike | PlayerAvatarFlagAcroBike
	PlayerAvatarFlagDiving   = 1 << 3
)

// Party/PC/bag layout.
const (
	PartySize     = 6
	PokemonSize   = 100
	BoxPokemonSize = 80
	SubstructureSize = 12
	EncryptedBlockSize = 48

	NumBoxes     = 14
	SlotsPerBox  = 30

	BagPocketCount  = 5
	BagItemSlotSize = 4

	// gBagPockets entry layout: a pointer to the pocket's ItemSlot
	// array followed by its u16 capacity.
	BagPocketDescriptorSize   = 8
	BagPocketPointerOffset    = 0x00
	BagPocketCapacityOffset   = 0x04

	// gPokemonStoragePtr holds the address of the PokemonStorage struct,
	// not the boxes array itself; sCurrentBoxNum is tracked separately,
	// so this is purely the struct's leading padding before boxes[].
	PokemonStorageBoxesOffset = 4
)

// BagPocketOrder names each pocket in the gBagPockets array order
// (items, key items, poke balls, TMs/HMs, berries); each pocket's
// capacity is read from its descriptor alongside its list pointer.
var BagPocketOrder = []string{"items", "keyItems", "pokeBalls", "tmsHms", "berries"}

// Battle. gBattleMons is a fixed BattlerCount-entry array of
// BattlePokemon structs (layout shared with the party Pokemon's stat
// half, minus the substructure encryption); gBattlerPartyIndexes and
// gAbsentBattlerFlags are parallel per-battler arrays/bitmasks.
const (
	BattlerCount        = 4
	BattlePokemonSize    = 100

	BattlePokemonSpeciesOffset   = 0x00
	BattlePokemonHeldItemOffset  = 0x02
	BattlePokemonMovesOffset     = 0x04 // 4 x u16
	BattlePokemonPPOffset        = 0x0C // 4 x u8
	BattlePokemonTypesOffset     = 0x15 // 2 x u8
	BattlePokemonAbilityOffset   = 0x16
	BattlePokemonLevelOffset     = 0x2A
	BattlePokemonHPOffset        = 0x28
	BattlePokemonMaxHPOffset     = 0x2C
	BattlePokemonStatusOffset    = 0x24

	BattlerPartyIndexSize = 2 // gBattlerPartyIndexes is a u16 array
	AbsentBattlerFlagsSize = 1

	// BattleTypeFlagDouble mirrors pokefirered's BATTLE_TYPE_DOUBLE bit
	// of gBattleTypeFlags; battler-to-side assignment depends on it.
	BattleTypeFlagDouble uint32 = 1 << 0
)

// Pokemon struct header, shared by the BoxPokemon layout (PC) and the
// larger party Pokemon layout that appends a decrypted stat block
// after it.
const (
	PokemonPIDOffset       = 0x00
	PokemonOTIDOffset      = 0x04
	PokemonNicknameOffset  = 0x08
	PokemonNicknameLen     = 10
	PokemonLanguageOffset  = 0x12
	PokemonFlagsOffset     = 0x13
	PokemonOTNameOffset    = 0x14
	PokemonOTNameLen       = 7
	PokemonMarkingsOffset  = 0x1B
	PokemonChecksumOffset  = 0x1C
	PokemonEncryptedBlockOffset = 0x20

	// Party-only stat block, present after the 48-byte encrypted
	// substructures on a full party Pokemon but absent on BoxPokemon.
	PokemonStatusOffset    = 0x50
	PokemonLevelOffset     = 0x54
	PokemonHPOffset        = 0x56
	PokemonMaxHPOffset     = 0x58
	PokemonAttackOffset    = 0x5A
	PokemonDefenseOffset   = 0x5C
	PokemonSpeedOffset     = 0x5E
	PokemonSpAttackOffset  = 0x60
	PokemonSpDefenseOffset = 0x62
)

// Encrypted-block substructure layout. Each of the four 12-byte substructures decrypts to
// one of these shapes depending on its slot in the PID-mod-24 order.
const (
	GrowthSpeciesOffset    = 0x00
	GrowthHeldItemOffset   = 0x02
	GrowthExperienceOffset = 0x04
	GrowthPPBonusesOffset  = 0x08
	GrowthFriendshipOffset = 0x09

	AttacksMoveOffset = 0x00 // 4 x u16
	AttacksPPOffset   = 0x08 // 4 x u8

	EVsHPOffset = 0x00 // 6 x u8: hp,atk,def,speed,spAtk,spDef

	MiscPokerusOffset      = 0x00
	MiscMetLocationOffset  = 0x01
	MiscOriginsInfoOffset  = 0x02 // u16: level(7) | game(4) | ball(4) | isFemale(1)... packed
	MiscIVEggAbilityOffset = 0x04 // u32: 5 bits x 6 IVs, bit 30 egg, bit 31 ability slot
	MiscRibbonsOffset      = 0x08
)

// IV/ability bitfield packing within MiscIVEggAbilityOffset.
const (
	IVBits        = 5
	IVMask        = 0x1F
	IVEggBit      = 30
	IVAbilityBit  = 31
)

// Tileset metatile attribute blob.
const (
	TilesetAttributeEntrySize   = 2
	TilesetAttributeBehaviorMask uint16 = 0x01FF
)

// Dialog/menu state machine input window. gTasks is a fixed
// array of task slots; each slot's func pointer at offset 0 identifies
// which task (if any) is currently driving a menu.
const (
	TaskSlotSize       = 40
	TaskCount          = 16
	TaskFuncOffset     = 0x00
	TaskIsActiveOffset = 0x05

	TextPrinterSize             = 0x24
	TextPrinterCount            = 2
	TextPrinterActiveOffset     = 0x00
	TextPrinterStateOffset      = 0x21
	TextPrinterCurrentCharOffset = 0x22

	StartMenuWindowIDSize = 1
	BagMenuStateSize      = 1

	WindowInvalidID = 0xFF
)

// Species info ROM table. One fixed-size entry per species, indexed directly by
// species id off SpeciesInfoTableAddr.
const (
	SpeciesInfoEntrySize      = 28
	SpeciesInfoTypesOffset    = 0x06 // 2 x u8: type1, type2
	SpeciesInfoAbilitiesOffset = 0x16 // 2 x u8: ability1, ability2
)

// Battle Pyramid floor/top map-layout ids, matched against the current
// map header's layout id to pick the pyramid visibility window.
const (
	PyramidFloorLayoutID uint16 = 0x0301
	PyramidTopLayoutID   uint16 = 0x0302
)

