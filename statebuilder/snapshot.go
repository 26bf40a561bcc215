package statebuilder

import (
	"fmt"
	"strings"
	"time"

	"github.com/fireredbridge/corebridge/bag"
	"github.com/fireredbridge/corebridge/battle"
	"github.com/fireredbridge/corebridge/collision"
	"github.com/fireredbridge/corebridge/dialog"
	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/events"
	"github.com/fireredbridge/corebridge/fog"
	"github.com/fireredbridge/corebridge/log"
	"github.com/fireredbridge/corebridge/mapdata"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/party"
	"github.com/fireredbridge/corebridge/pcbox"
	"github.com/fireredbridge/corebridge/schema"
)

// MinimapRow is one emitted minimap row, wire-ready.
type MinimapRow []collision.MinimapCode

// Snapshot is the fully assembled per-frame state. Consumers only ever
// see a complete value, never a half-updated one.
type Snapshot struct {
	GameVersion     string          `json:"gameVersion"`
	Player          Player          `json:"player"`
	ImportantEvents ImportantEvents `json:"importantEvents"`
	Visibility      Visibility      `json:"visibility"`
	AllControlsLocked bool          `json:"allControlsLocked"`
	Dialog          dialog.State    `json:"dialog"`
	Battle          battle.State    `json:"battle"`
	Party           []party.Pokemon `json:"party"`
	Bag             bag.Bag         `json:"bag"`
	PC              pcbox.Storage   `json:"pc"`

	MapName          string                                              `json:"mapName"`
	MinimapOriginX   int                                                 `json:"minimapOriginX"`
	MinimapOriginY   int                                                 `json:"minimapOriginY"`
	Minimap          []MinimapRow                                        `json:"minimap"`
	MinimapLegend    map[collision.MinimapCode]collision.MinimapLegendEntry `json:"minimapLegend"`
	FogShapeMismatch bool                                                `json:"fogShapeMismatch"`
	TilesDiscovered  int                                                 `json:"tilesDiscovered"`
	GroundChanges    []GroundChange                                      `json:"groundChanges"`

	NPCs        []events.NPC        `json:"npcs"`
	BGEvents    []events.BGEvent    `json:"bgEvents"`
	Warps       []events.WarpEvent  `json:"warpEvents"`
	Connections []events.Connection `json:"connections"`

	Metrics *memory.Scope `json:"-"`
}

// Builder owns every piece of cross-frame state a single Build call
// needs: attribute/static map caches, the species/bag/PC caches, the
// fog engine and the dialog/events readers.
type Builder struct {
	client *memory.Client
	cat    *schema.Catalog

	attrCache   *mapdata.AttributeCache
	staticCache *mapdata.StaticCache
	speciesCache *party.SpeciesCache
	bagCache    bag.Cache
	pcCache     pcbox.Cache
	fogEngine   *fog.Engine

	dialogReader *dialog.Reader
	eventsReader *events.Reader

	// gameVersion caches the ROM header title after the first Build.
	gameVersion string
}

// NewBuilder returns a Builder with every cache empty.
func NewBuilder(client *memory.Client, cat *schema.Catalog) *Builder {
	return &Builder{
		client:       client,
		cat:          cat,
		attrCache:    mapdata.NewAttributeCache(),
		staticCache:  &mapdata.StaticCache{},
		speciesCache: party.NewSpeciesCache(),
		fogEngine:    fog.NewEngine(),
		dialogReader: dialog.NewReader(client, cat),
		eventsReader: events.NewReader(client, cat),
	}
}

// Build assembles one full Snapshot, in a fixed step order:
// player, dialog/lock, battle, visibility, map/collision, events,
// full-map overlay, viewport trim, fog masking, party/bag/PC.
func (b *Builder) Build(overlay OverlayConfig) (Snapshot, error) {
	scope := b.client.BeginScope()
	defer scope.Close()

	// Every decoder after the player read degrades to a conservative
	// default on a bridge fault instead of failing the whole snapshot.
	// Only the player read is load-bearing: without it there is no map
	// key, no security key and no position to build anything around.
	player, importantEvents, err := ReadPlayer(b.client, b.cat)
	if err != nil {
		return Snapshot{}, err
	}

	if b.gameVersion == "" {
		if raw, err := b.client.ReadRange(schema.ROMHeaderTitleAddr, schema.ROMHeaderTitleLen); err == nil {
			b.gameVersion = strings.TrimRight(string(raw), "\x00")
		}
	}

	dlg, err := b.dialogReader.Read()
	if err != nil {
		log.Warn("snapshot: dialog read failed", log.F("error", err.Error()))
		dlg = dialog.State{}
	}

	locked, err := AllControlsLocked(b.client, b.cat, player.FieldControlsLocked, player.InBattle, dlg)
	if err != nil {
		log.Warn("snapshot: lock derivation failed", log.F("error", err.Error()))
		locked = player.FieldControlsLocked
	}

	battleState, err := battle.Read(b.client, b.cat)
	if err != nil {
		log.Warn("snapshot: battle read failed", log.F("error", err.Error()))
		battleState = battle.State{}
	}

	visibility, err := ComputeVisibility(b.client, b.cat, player.flagsBytes, player.sb1Ptr, player.sb2Ptr)
	if err != nil {
		log.Warn("snapshot: visibility read failed", log.F("error", err.Error()))
		visibility = Visibility{WidthTiles: MaxViewportWidth, HeightTiles: MaxViewportHeight, Cause: CauseNone, Hint: HintNotApplicable}
	}

	layout, err := mapdata.Read(b.client, b.cat, b.attrCache, b.staticCache)
	if err != nil {
		log.Warn("snapshot: map read failed", log.F("error", err.Error()))
		layout = mapdata.Layout{}
	}
	tags, codes := collision.Classify(layout, player.Elevation, player.Surfing)

	npcs, bgEvents, warps, connections, err := b.eventsReader.Read(player.MapGroup, player.MapNum)
	if err != nil {
		log.Warn("snapshot: events read failed", log.F("error", err.Error()))
		npcs, bgEvents, warps, connections = nil, nil, nil, nil
	}

	mapKey := MapKey{MapGroup: player.MapGroup, MapNum: player.MapNum}
	fullTags, fullCodes := ComposeFullMap(layout, tags, codes, mapKey, overlay, npcs, bgEvents)

	// The viewport's origin depends only on map size, player position and
	// window size, so it can be derived once and reused both to build the
	// fog discovery rect and to crop the final masked grid.
	// The viewport window never exceeds the map itself; small indoor
	// maps shrink the emitted grid below the visibility window.
	windowW := min(visibility.WidthTiles, layout.Width)
	windowH := min(visibility.HeightTiles, layout.Height)
	_, _, originX, originY := TrimViewport(layout.Width, layout.Height, fullTags, fullCodes, player.X, player.Y, windowW, windowH)
	viewport := fog.Rect{X: originX, Y: originY, Width: windowW, Height: windowH}

	maskedCodes, visibleNPCs, visibleBGEvents, mismatch, discovered, groundChanges := ApplyFog(b.fogEngine, player.MapGroup, player.MapNum, layout.Width, layout.Height, fullCodes, viewport, npcs, bgEvents)
	_, trimmedCodes, _, _ := TrimViewport(layout.Width, layout.Height, fullTags, maskedCodes, player.X, player.Y, windowW, windowH)

	minimap := make([]MinimapRow, windowH)
	for y := 0; y < windowH; y++ {
		row := make(MinimapRow, windowW)
		copy(row, trimmedCodes[y*windowW:(y+1)*windowW])
		minimap[y] = row
	}

	partyMembers, err := b.readParty()
	if err != nil {
		log.Warn("snapshot: party read failed", log.F("error", err.Error()))
		partyMembers = nil
	}
	if err := party.ResolveSpeciesInfo(b.client, b.cat, b.speciesCache, partyMembers); err != nil {
		log.Warn("snapshot: species resolution failed", log.F("error", err.Error()))
	}
	for _, bt := range battleState.Player {
		party.ApplyBattleTypeOverride(partyMembers, bt.PartyIndex, bt.Types)
	}

	now := time.Now()
	forceBag := player.InBattle || bag.ForceRefreshMenuTypes[dlg.MenuType]
	decodedBag, err := b.readBag(player.SecurityKey, forceBag, now)
	if err != nil {
		log.Warn("snapshot: bag read failed", log.F("error", err.Error()))
		decodedBag = bag.Bag{}
	}

	forcePC := pcbox.ForceRefreshMenuTypes[dlg.MenuType]
	storage, err := b.readPC(forcePC, now)
	if err != nil {
		log.Warn("snapshot: pc read failed", log.F("error", err.Error()))
		storage = pcbox.Storage{}
	}

	return Snapshot{
		GameVersion:       b.gameVersion,
		MapName:           fmt.Sprintf("MAP_%d_%d", player.MapGroup, player.MapNum),
		Player:            player,
		ImportantEvents:   importantEvents,
		Visibility:        visibility,
		AllControlsLocked: locked,
		Dialog:            dlg,
		Battle:            battleState,
		Party:             partyMembers,
		Bag:               decodedBag,
		PC:                storage,
		MinimapOriginX:    originX,
		MinimapOriginY:    originY,
		Minimap:           minimap,
		MinimapLegend:     collision.Legend(),
		FogShapeMismatch:  mismatch,
		TilesDiscovered:   discovered,
		GroundChanges:     groundChanges,
		NPCs:              visibleNPCs,
		BGEvents:          visibleBGEvents,
		Warps:             warps,
		Connections:       connections,
		Metrics:           scope,
	}, nil
}

func (b *Builder) readParty() ([]party.Pokemon, error) {
	raw, err := b.client.ReadRange(b.cat.PartyBaseAddr, schema.PartySize*schema.PokemonSize)
	if err != nil {
		return nil, err
	}
	return party.DecodeParty(raw), nil
}

func (b *Builder) readBag(securityKey uint32, forceRefresh bool, now time.Time) (bag.Bag, error) {
	descRaw, err := b.client.ReadRange(b.cat.BagPocketsBaseAddr, schema.BagPocketCount*schema.BagPocketDescriptorSize)
	if err != nil {
		return bag.Bag{}, err
	}
	if len(descRaw) < schema.BagPocketCount*schema.BagPocketDescriptorSize {
		return bag.Bag{}, fmt.Errorf("statebuilder: short bag descriptor read")
	}

	descriptors := make([]bag.Descriptor, schema.BagPocketCount)
	ranges := make([]memory.Range, schema.BagPocketCount)
	for i := 0; i < schema.BagPocketCount; i++ {
		entry := descRaw[i*schema.BagPocketDescriptorSize : (i+1)*schema.BagPocketDescriptorSize]
		addr := schema.Address(encoding.Read32(entry, schema.BagPocketPointerOffset))
		capacity := int(encoding.Read16(entry, schema.BagPocketCapacityOffset))
		descriptors[i] = bag.Descriptor{
			Kind:     bag.PocketKind(schema.BagPocketOrder[i]),
			Addr:     uint32(addr),
			Capacity: capacity,
		}
		ranges[i] = memory.Range{Addr: addr, Len: capacity * schema.BagItemSlotSize}
	}

	pocketData, err := b.client.ReadRanges(ranges)
	if err != nil {
		return bag.Bag{}, err
	}

	securityKeyLow16 := uint16(securityKey)
	if cached, ok := b.bagCache.Get(securityKeyLow16, descriptors, pocketData, forceRefresh, now); ok {
		return cached, nil
	}
	decoded := bag.Decode(descriptors, pocketData, securityKeyLow16)
	b.bagCache.Put(securityKeyLow16, descriptors, pocketData, decoded, now)
	return decoded, nil
}

func (b *Builder) readPC(forceRefresh bool, now time.Time) (pcbox.Storage, error) {
	segments, err := b.client.ReadRanges([]memory.Range{
		{Addr: b.cat.PCBoxesBaseAddr, Len: 4},
		{Addr: b.cat.PCCurrentBoxAddr, Len: 1},
	})
	if err != nil {
		return pcbox.Storage{}, err
	}
	if !segmentsComplete(segments, 4, 1) {
		return pcbox.Storage{}, fmt.Errorf("statebuilder: short pc pointer read")
	}
	storagePtr := schema.Address(encoding.Read32(segments[0], 0))
	currentBox := int(segments[1][0])
	if storagePtr == 0 {
		return pcbox.Storage{CurrentBox: currentBox}, nil
	}

	boxesAddr := storagePtr + schema.PokemonStorageBoxesOffset
	raw, err := b.client.ReadRange(boxesAddr, schema.NumBoxes*schema.SlotsPerBox*schema.BoxPokemonSize)
	if err != nil {
		return pcbox.Storage{}, err
	}

	if cached, ok := b.pcCache.Get(currentBox, raw, forceRefresh, now); ok {
		return cached, nil
	}
	decoded := pcbox.Decode(raw, currentBox)
	b.pcCache.Put(currentBox, raw, decoded, now)
	return decoded, nil
}
