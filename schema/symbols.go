package schema

// Facing is the player's cardinal facing direction, decoded from the raw
// object-event facing byte (masked to 3 bits).
type Facing string

const (
	FacingDown  Facing = "down"
	FacingUp    Facing = "up"
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
	FacingUnknown Facing = "unknown"
)

// FacingFromRaw mirrors pokefirered's DIR_* constants (masked to bits 0-2).
func FacingFromRaw(raw uint8) Facing {
	switch raw & 0x07 {
	case 1:
		return FacingDown
	case 2:
		return FacingUp
	case 3:
		return FacingLeft
	case 4:
		return FacingRight
	default:
		return FacingUnknown
	}
}

// Badge names a gym badge flag.
type Badge struct {
	ID     string
	Label  string
	FlagID int
}

// Catalog is the resolved, generated table of logical names to addresses
// and struct layouts. It is built once at startup by NewCatalog;
// later reads assume resolution succeeded.
type Catalog struct {
	// Saveblock pointers.
	GSaveBlock1PtrAddr      Address
	SecurityKeyPointerAddr  Address // &gSaveBlock2Ptr, security key lives at +SaveBlock2SecurityKeyOffset
	SaveStateObjectPtrAddr  Address // &gSaveBlock1Ptr, used as the primary player-state base

	// Party / PC base addresses.
	PartyBaseAddr   Address
	PCBoxesBaseAddr Address
	PCCurrentBoxAddr Address

	// Bag.
	BagPocketsBaseAddr Address

	// Map.
	CurrentMapHeaderAddr  Address
	BackupMapLayoutAddr   Address

	// Object events (NPCs + player).
	ObjectEventsAddr Address

	// Player avatar / control state.
	PlayerAvatarAddr        Address
	ScriptLockFieldControls Address
	InBattleBitAddr         Address
	GSafariZoneStepCounterAddr Address
	GMainAddr               Address
	GPaletteFadeAddr        Address
	SGlobalScriptContextAddr Address
	WaitForAOrBPressAddr    Address
	IsFieldMessageBoxHiddenAddr Address
	CB2LoadMapAddr          Address
	CB2DoChangeMapAddr      Address

	// Dialog/menu state — callbacks, tasks, window/text-printer state,
	// and the field-message string buffer.
	MenuCallbacks map[string]Address
	TaskSlotsAddr Address
	TextPrintersAddr Address
	StartMenuStateAddr Address
	BagMenuStateAddr Address
	StringVar4Addr Address

	// Battle.
	BattleStateAddr  Address
	GBattleTypeFlagsAddr Address
	BattlerPartyIndexesAddr Address
	AbsentBattlerFlagsAddr  Address

	// Flags.
	Badges               []Badge
	ImportantEventFlagIDs map[string]int

	// Species name/type/ability tables — a symbol-resolved pointer into
	// ROM-static tables.
	SpeciesInfoTableAddr Address
}

// requiredSpecs lists every catalog symbol, its resolution hints, and
// where it ends up in Catalog. Built once; missing required symbols fail
// eagerly.
func requiredSpecs() map[string]ResolveSpec {
	return map[string]ResolveSpec{
		"gSaveBlock1Ptr":            {Name: "gSaveBlock1Ptr"},
		"gSaveBlock2Ptr":            {Name: "gSaveBlock2Ptr"},
		"gPlayerParty":              {Name: "gPlayerParty"},
		"gPokemonStoragePtr":        {Name: "gPokemonStoragePtr"},
		"sCurrentBoxNum":            {Name: "sCurrentBoxNum"},
		"gBagPockets":               {Name: "gBagPockets"},
		"gMapHeader":                {Name: "gMapHeader"},
		"gBackupMapLayout":          {Name: "gBackupMapLayout"},
		"gObjectEvents":             {Name: "gObjectEvents"},
		"gPlayerAvatar":             {Name: "gPlayerAvatar"},
		"sLockFieldControls":        {Name: "sLockFieldControls"},
		"gBattleTypeFlags":          {Name: "gBattleTypeFlags", Optional: true},
		"gBattleMons":               {Name: "gBattleMons", Optional: true},
		"gSafariZoneStepCounter":    {Name: "gSafariZoneStepCounter"},
		"gMain":                     {Name: "gMain"},
		"gPaletteFade":              {Name: "gPaletteFade"},
		"gSaveBlock1Ptr_FlagsBase":  {Name: "gSaveBlock1Ptr", Optional: true},
		"gGlobalScriptContext":      {Name: "gGlobalScriptContext"},
		"WaitForAorBPress":          {Name: "WaitForAorBPress"},
		"IsFieldMessageBoxHidden":   {Name: "IsFieldMessageBoxHidden"},
		"CB2_LoadMap":               {Name: "CB2_LoadMap"},
		"CB2_DoChangeMap":           {Name: "CB2_DoChangeMap"},
		"gSpeciesInfo":              {Name: "gSpeciesInfo"},
		"gTasks":                    {Name: "gTasks"},
		"gTextPrinters":             {Name: "gTextPrinters"},
		"sStartMenuWindowId":        {Name: "sStartMenuWindowId", Optional: true},
		"sBagMenuState":             {Name: "sBagMenuState", Optional: true},
		"gStringVar4":               {Name: "gStringVar4", Optional: true},
		"gBattlerPartyIndexes":      {Name: "gBattlerPartyIndexes", Optional: true},
		"gAbsentBattlerFlags":       {Name: "gAbsentBattlerFlags", Optional: true},
	}
}

// menuCallbackSpecs names the well-known main-callback (CB2_*) and
// task-function addresses the dialog classifier pattern-matches
// against, one per menuType tag. Every entry is optional: a
// callback this build of the ROM doesn't export simply never matches.
func menuCallbackSpecs() map[string]string {
	return map[string]string{
		"dialog":               "Task_DrawFieldMessageBox",
		"yesNo":                "Task_HandleYesNoInput",
		"multichoice":          "Task_HandleMultichoiceInput",
		"startMenu":            "CB2_StartMenu",
		"bagMenu":              "CB2_BagMenuRun",
		"itemStorageList":      "CB2_ItemStorageList",
		"itemStorageMenu":      "CB2_ItemStorageMenu",
		"pokemonStorage":       "CB2_PokemonStorageSystem",
		"pokemonStoragePcMenu": "CB2_PokemonStoragePcMenu",
		"playerPcMenu":         "CB2_PlayerPc",
		"summaryScreen":        "CB2_ShowPokemonSummaryScreen",
		"shopBuy":              "CB2_BuyMenu",
		"partyMenu":            "CB2_PartyMenu",
		"namingScreen":         "CB2_NamingScreen",
		"titleScreen":          "CB2_TitleScreen",
		"mainMenu":             "CB2_MainMenu",
		"optionMenu":           "CB2_OptionMenu",
		"pokedex":              "CB2_Pokedex",
		"flyMap":               "CB2_FlyMap",
		"regionMap":            "CB2_RegionMap",
		"questLogRecap":        "CB2_QuestLogRecap",
	}
}

// NewCatalog resolves every symbol this bridge needs from st, producing a
// fully populated Catalog, or the first ResolutionError encountered.
// Resolution happens once at startup.
func NewCatalog(st SymbolTable) (*Catalog, error) {
	specs := requiredSpecs()
	resolved := make(map[string]Address, len(specs))
	for name, spec := range specs {
		addr, err := resolve(st, spec)
		if err != nil {
			return nil, err
		}
		resolved[name] = addr
	}

	c := &Catalog{
		GSaveBlock1PtrAddr:         resolved["gSaveBlock1Ptr"],
		SaveStateObjectPtrAddr:     resolved["gSaveBlock1Ptr"],
		SecurityKeyPointerAddr:     resolved["gSaveBlock2Ptr"],
		PartyBaseAddr:              resolved["gPlayerParty"],
		PCBoxesBaseAddr:            resolved["gPokemonStoragePtr"],
		PCCurrentBoxAddr:           resolved["sCurrentBoxNum"],
		BagPocketsBaseAddr:         resolved["gBagPockets"],
		CurrentMapHeaderAddr:       resolved["gMapHeader"],
		BackupMapLayoutAddr:        resolved["gBackupMapLayout"],
		ObjectEventsAddr:           resolved["gObjectEvents"],
		PlayerAvatarAddr:           resolved["gPlayerAvatar"],
		ScriptLockFieldControls:    resolved["sLockFieldControls"],
		InBattleBitAddr:            resolved["gBattleTypeFlags"],
		GBattleTypeFlagsAddr:       resolved["gBattleTypeFlags"],
		GSafariZoneStepCounterAddr: resolved["gSafariZoneStepCounter"],
		GMainAddr:                  resolved["gMain"],
		GPaletteFadeAddr:           resolved["gPaletteFade"],
		SGlobalScriptContextAddr:   resolved["gGlobalScriptContext"],
		WaitForAOrBPressAddr:       resolved["WaitForAorBPress"],
		IsFieldMessageBoxHiddenAddr: resolved["IsFieldMessageBoxHidden"],
		CB2LoadMapAddr:             resolved["CB2_LoadMap"],
		CB2DoChangeMapAddr:         resolved["CB2_DoChangeMap"],
		SpeciesInfoTableAddr:       resolved["gSpeciesInfo"],
		TaskSlotsAddr:              resolved["gTasks"],
		TextPrintersAddr:           resolved["gTextPrinters"],
		StartMenuStateAddr:         resolved["sStartMenuWindowId"],
		BagMenuStateAddr:           resolved["sBagMenuState"],
		StringVar4Addr:             resolved["gStringVar4"],
		BattleStateAddr:            resolved["gBattleMons"],
		BattlerPartyIndexesAddr:    resolved["gBattlerPartyIndexes"],
		AbsentBattlerFlagsAddr:     resolved["gAbsentBattlerFlags"],

		Badges: []Badge{
			{ID: "boulder", Label: "Boulder Badge", FlagID: 0x867},
			{ID: "cascade", Label: "Cascade Badge", FlagID: 0x868},
			{ID: "thunder", Label: "Thunder Badge", FlagID: 0x869},
			{ID: "rainbow", Label: "Rainbow Badge", FlagID: 0x86A},
			{ID: "soul", Label: "Soul Badge", FlagID: 0x86B},
			{ID: "marsh", Label: "Marsh Badge", FlagID: 0x86C},
			{ID: "volcano", Label: "Volcano Badge", FlagID: 0x86D},
			{ID: "earth", Label: "Earth Badge", FlagID: 0x86E},
		},
		ImportantEventFlagIDs: map[string]int{
			"FLAG_SYS_POKEMON_GET":      0x860,
			"FLAG_SYS_POKEDEX_GET":      0x861,
			"FLAG_HIDE_SS_ANNE":         0x1C4,
			"FLAG_HIDE_HIDEOUT_GIOVANNI": 0x2B0,
			"FLAG_GOT_POKE_FLUTE":       0x2D1,
			"FLAG_GOT_HM03":             0x2A0,
			"FLAG_HIDE_SAFFRON_ROCKETS": 0x2F6,
			"FLAG_DEFEATED_LANCE":       0x2B4,
			"FLAG_DEFEATED_CHAMP":       0x2B5,
			"FLAG_DEFEATED_LORELEI":     0x2B1,
			"FLAG_DEFEATED_BRUNO":       0x2B2,
			"FLAG_DEFEATED_AGATHA":      0x2B3,
			"FLAG_SYS_GAME_CLEAR":       0x807,
			"FLAG_SYS_SAFARI_MODE":      0x8A4,
			"FLAG_SYS_USE_FLASH":        0x888,
			"FLAG_SYS_USE_STRENGTH":     0x889,
		},
	}

	c.MenuCallbacks = make(map[string]Address, len(menuCallbackSpecs()))
	for menuType, symbolName := range menuCallbackSpecs() {
		addr, err := resolve(st, ResolveSpec{Name: symbolName, Optional: true})
		if err != nil {
			return nil, err
		}
		c.MenuCallbacks[menuType] = addr
	}

	return c, nil
}

// Flag looks up a well-known system/event flag id by name, failing
// loudly (as a programmer error, not a runtime one) if the name is
// unknown — callers should only ever pass the constants this package
// exports.
func (c *Catalog) Flag(name string) int {
	id, ok := c.ImportantEventFlagIDs[name]
	if !ok {
		panic("schema: unknown flag name " + name)
	}
	return id
}
