// Package events reads NPCs, BG events, warps and map connections off
// the current map's event tables, merging live object-event state with
// the saveblock-1 template pool and filtering out what the engine
// itself keeps hidden.
package events

import (
	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

// NPC is one merged object-event entry, keyed by local id.
type NPC struct {
	LocalID       int           `json:"localId"`
	GraphicsID    uint8         `json:"graphicsId"`
	MovementType  uint8         `json:"movementType"`
	MovementRange uint8         `json:"movementRange"`
	X             int           `json:"x"`
	Y             int           `json:"y"`
	Elevation     uint8         `json:"elevation"`
	Facing        schema.Facing `json:"facing"`
	IsActive      bool          `json:"isActive"`
	Offscreen     bool          `json:"offscreen"`
}

// BGEvent is a sign/PC/secret-base background event. Hidden-item kinds
// are filtered out before this type is ever constructed.
type BGEvent struct {
	X            int   `json:"x"`
	Y            int   `json:"y"`
	Elevation    uint8 `json:"elevation"`
	Kind         uint8 `json:"kind"`
	IsSecretBase bool  `json:"isSecretBase"`
}

// WarpEvent is kept whole; only used as a fallback overlay when
// behavior-derived warp detection is ambiguous.
type WarpEvent struct {
	X            int   `json:"x"`
	Y            int   `json:"y"`
	Elevation    uint8 `json:"elevation"`
	WarpID       uint8 `json:"warpId"`
	DestMapNum   uint8 `json:"destMapNum"`
	DestMapGroup uint8 `json:"destMapGroup"`
}

// Connection is one adjacency to another map, or the sentinel entry
// for a direction the current map has none in.
type Connection struct {
	Direction string `json:"direction"` // "north" | "south" | "west" | "east"
	Offset    int    `json:"offset"`
	MapGroup  uint8  `json:"mapGroup"`
	MapNum    uint8  `json:"mapNum"`
	None      bool   `json:"none"`
}

var directions = []string{"south", "north", "west", "east"}

const noConnectionMapGroup, noConnectionMapNum = 0xFF, 0xFF

// Reader reads all four event sources for the current map, caching by
// (map_group, map_num) since they don't change until the map does.
type Reader struct {
	client *memory.Client
	cat    *schema.Catalog
	cache  map[[2]uint8]snapshot
}

type snapshot struct {
	npcs        []NPC
	bgEvents    []BGEvent
	warps       []WarpEvent
	connections []Connection
}

// NewReader returns a Reader with an empty per-map cache.
func NewReader(client *memory.Client, cat *schema.Catalog) *Reader {
	return &Reader{client: client, cat: cat, cache: make(map[[2]uint8]snapshot)}
}

// Read returns the merged NPCs, filtered BG events, warps and
// connections for the map identified by (mapGroup, mapNum).
func (r *Reader) Read(mapGroup, mapNum uint8) (npcs []NPC, bgEvents []BGEvent, warps []WarpEvent, connections []Connection, err error) {
	key := [2]uint8{mapGroup, mapNum}
	if s, ok := r.cache[key]; ok {
		return s.npcs, s.bgEvents, s.warps, s.connections, nil
	}

	liveNPCs, err := r.readLiveObjectEvents(mapGroup, mapNum)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	templates, err := r.readTemplates()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	npcs = mergeNPCs(liveNPCs, templates)

	mapEventsAddr, err := r.readMapEventsPointer()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	bgEvents, err = r.readBGEvents(mapEventsAddr)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	warps, err = r.readWarps(mapEventsAddr)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	connections, err = r.readConnections()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	r.cache[key] = snapshot{npcs: npcs, bgEvents: bgEvents, warps: warps, connections: connections}
	return npcs, bgEvents, warps, connections, nil
}

func (r *Reader) readMapEventsPointer() (schema.Address, error) {
	raw, err := r.client.ReadRange(r.cat.CurrentMapHeaderAddr+schema.MapHeaderMapEventsOffset, 4)
	if err != nil {
		return 0, err
	}
	return schema.Address(encoding.Read32(raw, 0)), nil
}

// readLiveObjectEvents reads the full gObjectEvents array, skipping
// slot 0 (player), inactive slots, zero-graphic slots, and entries not
// on the current map.
func (r *Reader) readLiveObjectEvents(mapGroup, mapNum uint8) ([]NPC, error) {
	raw, err := r.client.ReadRange(r.cat.ObjectEventsAddr, schema.ObjectEventSize*schema.ObjectEventCount)
	if err != nil {
		return nil, err
	}

	var out []NPC
	for slot := 1; slot < schema.ObjectEventCount; slot++ {
		base := slot * schema.ObjectEventSize
		if base+schema.ObjectEventSize > len(raw) {
			break
		}
		entry := raw[base : base+schema.ObjectEventSize]

		flags := encoding.Read16(entry, schema.ObjectEventFlagsOffset)
		active := flags&(1<<schema.ObjectEventActiveBit) != 0
		if !active {
			continue
		}
		graphicsID := entry[schema.ObjectEventGraphicsIDOffset]
		if graphicsID == 0 {
			continue
		}
		if entry[schema.ObjectEventMapGroupOffset] != mapGroup || entry[schema.ObjectEventMapNumOffset] != mapNum {
			continue
		}

		out = append(out, NPC{
			LocalID:      int(entry[schema.ObjectEventLocalIDOffset]),
			GraphicsID:   graphicsID,
			MovementType: entry[schema.ObjectEventMovementTypeOffset],
			X:            int(int16(encoding.Read16(entry, schema.ObjectEventXOffset))),
			Y:            int(int16(encoding.Read16(entry, schema.ObjectEventYOffset))),
			Elevation:    entry[schema.ObjectEventElevationOffset] & schema.ObjectEventCurrentElevationMask,
			Facing:       schema.FacingFromRaw(entry[schema.ObjectEventFacingDirOffset]),
			IsActive:     true,
			Offscreen:    flags&(1<<schema.ObjectEventOffscreenBit) != 0,
		})
	}
	return out, nil
}

type template struct {
	localID       int
	graphicsID    uint8
	movementType  uint8
	movementRange uint8
	x, y          int
	elevation     uint8
	flagID        int
}

// readTemplates reads the saveblock-1 template pool, skipping empty
// slots (graphics id 0) and any template whose visibility flag is set.
func (r *Reader) readTemplates() ([]template, error) {
	ptrBytes, err := r.client.ReadRange(r.cat.GSaveBlock1PtrAddr, 4)
	if err != nil {
		return nil, err
	}
	sb1Ptr := schema.Address(encoding.Read32(ptrBytes, 0))
	if sb1Ptr == 0 {
		return nil, nil
	}

	flagsBytes, err := r.client.ReadRange(sb1Ptr+schema.SaveBlock1FlagsOffset, schema.SaveBlock1FlagsByteLength)
	if err != nil {
		return nil, err
	}

	templatesAddr := sb1Ptr + schema.SaveBlock1ObjectEventTemplatesOffset
	raw, err := r.client.ReadRange(templatesAddr, schema.ObjectEventTemplateSize*schema.ObjectEventTemplatesCount)
	if err != nil {
		return nil, err
	}

	var out []template
	for i := 0; i < schema.ObjectEventTemplatesCount; i++ {
		base := i * schema.ObjectEventTemplateSize
		if base+schema.ObjectEventTemplateSize > len(raw) {
			break
		}
		entry := raw[base : base+schema.ObjectEventTemplateSize]
		if entry[schema.ObjectEventTemplateGraphicsIDOffset] == 0 {
			continue
		}

		flagID := int(encoding.Read16(entry, schema.ObjectEventTemplateFlagIDOffset))
		if flagID != 0 && schema.FlagSet(flagsBytes, flagID) {
			continue
		}

		out = append(out, template{
			localID:       int(entry[schema.ObjectEventTemplateLocalIDOffset]),
			graphicsID:    entry[schema.ObjectEventTemplateGraphicsIDOffset],
			movementType:  entry[schema.ObjectEventTemplateMovementTypeOffset],
			movementRange: entry[schema.ObjectEventTemplateMovementRangeOffset],
			x:             int(int16(encoding.Read16(entry, schema.ObjectEventTemplateXOffset))),
			y:             int(int16(encoding.Read16(entry, schema.ObjectEventTemplateYOffset))),
			elevation:     entry[schema.ObjectEventTemplateElevationOffset],
			flagID:        flagID,
		})
	}
	return out, nil
}

// mergeNPCs merges live object-event state with the visible template
// pool by local id. Live state overrides position/facing/offscreen
// when present; live-only entries (scripted, no template) are kept
// with IsActive=true.
func mergeNPCs(live []NPC, templates []template) []NPC {
	byLocalID := make(map[int]NPC, len(templates)+len(live))
	order := make([]int, 0, len(templates)+len(live))

	for _, t := range templates {
		byLocalID[t.localID] = NPC{
			LocalID:       t.localID,
			GraphicsID:    t.graphicsID,
			MovementType:  t.movementType,
			MovementRange: t.movementRange,
			X:             t.x,
			Y:             t.y,
			Elevation:     t.elevation,
			Facing:        schema.FacingDown,
			IsActive:      false,
		}
		order = append(order, t.localID)
	}

	for _, l := range live {
		if existing, ok := byLocalID[l.LocalID]; ok {
			existing.X, existing.Y = l.X, l.Y
			existing.Facing = l.Facing
			existing.Offscreen = l.Offscreen
			existing.Elevation = l.Elevation
			existing.IsActive = true
			byLocalID[l.LocalID] = existing
			continue
		}
		byLocalID[l.LocalID] = l
		order = append(order, l.LocalID)
	}

	out := make([]NPC, 0, len(order))
	seen := make(map[int]bool, len(order))
	for _, id := range order {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, byLocalID[id])
	}
	return out
}

// readBGEvents reads the BG event array, filtering out hidden-item
// kinds.
func (r *Reader) readBGEvents(mapEventsAddr schema.Address) ([]BGEvent, error) {
	countByte, err := r.client.ReadU8(mapEventsAddr + schema.MapEventsBGEventCountOffset)
	if err != nil {
		return nil, err
	}
	ptrBytes, err := r.client.ReadRange(mapEventsAddr+schema.MapEventsBGEventsPointerOffset, 4)
	if err != nil {
		return nil, err
	}
	ptr := schema.Address(encoding.Read32(ptrBytes, 0))
	count := int(countByte)
	if count == 0 || ptr == 0 {
		return nil, nil
	}

	raw, err := r.client.ReadRange(ptr, schema.BGEventSize*count)
	if err != nil {
		return nil, err
	}

	var out []BGEvent
	for i := 0; i < count; i++ {
		base := i * schema.BGEventSize
		if base+schema.BGEventSize > len(raw) {
			break
		}
		entry := raw[base : base+schema.BGEventSize]
		kind := entry[schema.BGEventKindOffset]
		if kind == schema.BGEventKindHiddenItem {
			continue
		}
		out = append(out, BGEvent{
			X:            int(int16(encoding.Read16(entry, 0))),
			Y:            int(int16(encoding.Read16(entry, 2))),
			Elevation:    entry[schema.BGEventElevationOffset],
			Kind:         kind,
			IsSecretBase: kind == schema.BGEventKindSecretBase,
		})
	}
	return out, nil
}

func (r *Reader) readWarps(mapEventsAddr schema.Address) ([]WarpEvent, error) {
	countByte, err := r.client.ReadU8(mapEventsAddr + schema.MapEventsWarpEventCountOffset)
	if err != nil {
		return nil, err
	}
	ptrBytes, err := r.client.ReadRange(mapEventsAddr+schema.MapEventsWarpEventsPointerOffset, 4)
	if err != nil {
		return nil, err
	}
	ptr := schema.Address(encoding.Read32(ptrBytes, 0))
	count := int(countByte)
	if count == 0 || ptr == 0 {
		return nil, nil
	}

	raw, err := r.client.ReadRange(ptr, schema.WarpEventSize*count)
	if err != nil {
		return nil, err
	}

	out := make([]WarpEvent, 0, count)
	for i := 0; i < count; i++ {
		base := i * schema.WarpEventSize
		if base+schema.WarpEventSize > len(raw) {
			break
		}
		entry := raw[base : base+schema.WarpEventSize]
		out = append(out, WarpEvent{
			X:            int(int16(encoding.Read16(entry, schema.WarpEventXOffset))),
			Y:            int(int16(encoding.Read16(entry, schema.WarpEventYOffset))),
			Elevation:    entry[schema.WarpEventElevationOffset],
			WarpID:       entry[schema.WarpEventWarpIDOffset],
			DestMapNum:   entry[schema.WarpEventMapNumOffset],
			DestMapGroup: entry[schema.WarpEventMapGroupOffset],
		})
	}
	return out, nil
}

// readConnections reads the current map's connection list, filling in
// a sentinel None entry for every direction it doesn't have.
func (r *Reader) readConnections() ([]Connection, error) {
	connAddr, err := r.readMapConnectionsPointer()
	if err != nil {
		return nil, err
	}

	byDirection := make(map[string]Connection, 4)
	if connAddr != 0 {
		header, err := r.client.ReadRange(connAddr, 8)
		if err != nil {
			return nil, err
		}
		count := int(encoding.Read32(header, schema.MapConnectionsCountOffset))
		ptr := schema.Address(encoding.Read32(header, schema.MapConnectionsConnectionPointerOffset))
		if count > 0 && ptr != 0 {
			raw, err := r.client.ReadRange(ptr, schema.MapConnectionSize*count)
			if err != nil {
				return nil, err
			}
			for i := 0; i < count; i++ {
				base := i * schema.MapConnectionSize
				if base+schema.MapConnectionSize > len(raw) {
					break
				}
				entry := raw[base : base+schema.MapConnectionSize]
				dir := directionName(entry[schema.MapConnectionDirectionOffset])
				byDirection[dir] = Connection{
					Direction: dir,
					Offset:    int(int32(encoding.Read32(entry, schema.MapConnectionOffsetOffset))),
					MapGroup:  entry[schema.MapConnectionMapGroupOffset],
					MapNum:    entry[schema.MapConnectionMapNumOffset],
				}
			}
		}
	}

	out := make([]Connection, 0, 4)
	for _, dir := range directions {
		if c, ok := byDirection[dir]; ok {
			out = append(out, c)
			continue
		}
		out = append(out, Connection{Direction: dir, MapGroup: noConnectionMapGroup, MapNum: noConnectionMapNum, None: true})
	}
	return out, nil
}

func (r *Reader) readMapConnectionsPointer() (schema.Address, error) {
	raw, err := r.client.ReadRange(r.cat.CurrentMapHeaderAddr+schema.MapHeaderMapConnectionsOffset, 4)
	if err != nil {
		return 0, err
	}
	return schema.Address(encoding.Read32(raw, 0)), nil
}

func directionName(raw uint8) string {
	switch raw {
	case 1:
		return "south"
	case 2:
		return "north"
	case 3:
		return "west"
	case 4:
		return "east"
	default:
		return "unknown"
	}
}
