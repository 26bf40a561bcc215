package statebuilder

import (
	"github.com/fireredbridge/corebridge/collision"
	"github.com/fireredbridge/corebridge/events"
	"github.com/fireredbridge/corebridge/fog"
	"github.com/fireredbridge/corebridge/mapdata"
)

// overlayBehaviorID is the subset of pokefirered's MB_* enum the
// full-map overlay composition step cares about: which raw metatile
// behavior marks an arrow warp, a stair warp, or an interactive
// device.
// Placeholder values, same reasoning as collision.BehaviorID — what
// matters is which set an id belongs to, not the literal number.
type overlayBehaviorID = mapdata.BehaviorID

// The warp behaviors occupy a range disjoint from the terrain
// behaviors the collision classifier owns; one id space covers both.
const (
	behArrowWarpNorth overlayBehaviorID = iota + 0x40
	behArrowWarpSouth
	behArrowWarpEast
	behArrowWarpWest
	behStairWarpUp
	behStairWarpDown
)

var arrowWarpDelta = map[overlayBehaviorID][2]int{
	behArrowWarpNorth: {0, -1},
	behArrowWarpSouth: {0, 1},
	behArrowWarpEast:  {1, 0},
	behArrowWarpWest:  {-1, 0},
}

var stairWarpDelta = map[overlayBehaviorID][2]int{
	behStairWarpUp:   {0, -1},
	behStairWarpDown: {0, 1},
}

// Interactive-object behaviors drawn with a dedicated glyph when a BG
// event sits on them: the event's kind byte only says "script", so the
// device underneath is identified by the metatile behavior, the same
// way the engine itself picks the interaction script.
const (
	behDevicePC overlayBehaviorID = iota + 0x50
	behDeviceTV
	behDeviceBookshelf
	behDeviceShopShelf
	behDeviceTrashCan
	behDeviceRegionMap
)

var bgGlyphByBehavior = map[overlayBehaviorID]collision.Tag{
	behDevicePC:        collision.TagPC,
	behDeviceTV:        collision.TagTV,
	behDeviceBookshelf: collision.TagBookshelf,
	behDeviceShopShelf: collision.TagShopShelf,
	behDeviceTrashCan:  collision.TagTrashCan,
	behDeviceRegionMap: collision.TagRegionMapSign,
}

// specialGraphicsID placeholders the OBJ_EVENT_GFX_* ids for the
// overworld interactive objects that are implemented as object events
// rather than BG events in pokefirered (PC, TV, bookshelf and shop
// shelf all need a facing-direction interaction script, same as an
// item ball, pushable boulder, cuttable tree or smashable rock).
type specialGraphicsID = uint8

const (
	gfxItemBall specialGraphicsID = iota + 1
	gfxPushableBoulder
	gfxCutTree
	gfxSmashableRock
	gfxPC
	gfxTV
	gfxBookshelf
	gfxShopShelf
	gfxTrashCan
	gfxRegionMapSign
)

var specialGlyphByGraphicsID = map[specialGraphicsID]collision.Tag{
	gfxItemBall:        collision.TagItemBall,
	gfxPushableBoulder: collision.TagPushableBoulder,
	gfxCutTree:         collision.TagCutTree,
	gfxSmashableRock:   collision.TagSmashableRock,
	gfxPC:              collision.TagPC,
	gfxTV:              collision.TagTV,
	gfxBookshelf:       collision.TagBookshelf,
	gfxShopShelf:       collision.TagShopShelf,
	gfxTrashCan:        collision.TagTrashCan,
	gfxRegionMapSign:   collision.TagRegionMapSign,
}

// TilePos is a map-tile coordinate.
type TilePos struct{ X, Y int }

// MapKey identifies one map for per-map overlay hooks.
type MapKey struct{ MapGroup, MapNum uint8 }

// OverlayConfig holds hand-curated, per-map special cases the engine
// doesn't expose generically: Victory Road's scripted temporary walls
// and Silph Co.'s security doors. Both lists are ROM-hand-encoded tile
// coordinates; with an entry absent, composition degrades to "draw
// nothing special there". ComposeFullMap itself needs no change when
// new maps are added.
type OverlayConfig struct {
	TemporaryWalls map[MapKey][]TilePos
	LockedDoors    map[MapKey][]TilePos
}

// NewOverlayConfig returns an OverlayConfig with both hooks present but
// empty.
func NewOverlayConfig() OverlayConfig {
	return OverlayConfig{
		TemporaryWalls: map[MapKey][]TilePos{},
		LockedDoors:    map[MapKey][]TilePos{},
	}
}

// ComposeFullMap lays the full-map overlay over an
// already-classified tag/code grid: door glyphs derived from
// arrow-warp tiles that sit next to a wall, stair-warp visual
// displacement, the hand-curated per-map temporary walls and locked
// doors, then NPCs (with special-graphics overrides) and remaining BG
// events. It never mutates the classifier's own output; it returns new
// slices.
func ComposeFullMap(layout mapdata.Layout, tags []collision.Tag, codes []collision.MinimapCode, key MapKey, cfg OverlayConfig, npcs []events.NPC, bgEvents []events.BGEvent) ([]collision.Tag, []collision.MinimapCode) {
	w, h := layout.Width, layout.Height
	outTags := append([]collision.Tag(nil), tags...)
	outCodes := append([]collision.MinimapCode(nil), codes...)

	set := func(x, y int, tag collision.Tag) {
		if x < 0 || y < 0 || x >= w || y >= h {
			return
		}
		idx := y*w + x
		outTags[idx] = tag
		outCodes[idx] = collision.CodeFor(tag)
	}
	at := func(x, y int) (collision.Tag, bool) {
		if x < 0 || y < 0 || x >= w || y >= h {
			return "", false
		}
		return outTags[y*w+x], true
	}

	for i, cell := range layout.Cells {
		x, y := i%w, i/w
		beh := layout.BehaviorID(cell.MetatileID)

		if d, ok := arrowWarpDelta[beh]; ok {
			nx, ny := x+d[0], y+d[1]
			if t, ok := at(nx, ny); ok && t == collision.TagWall {
				set(nx, ny, collision.TagDoor)
			}
			continue
		}
		if d, ok := stairWarpDelta[beh]; ok {
			set(x+d[0], y+d[1], collision.TagStairs)
			set(x, y, collision.TagRedCarpet)
		}
	}

	for _, tp := range cfg.TemporaryWalls[key] {
		set(tp.X, tp.Y, collision.TagTemporaryWall)
	}
	for _, tp := range cfg.LockedDoors[key] {
		// A door that's been unlocked no longer classifies as a wall
		// underneath; don't redraw it as locked once it's open.
		if t, ok := at(tp.X, tp.Y); ok && t != collision.TagWall {
			continue
		}
		set(tp.X, tp.Y, collision.TagLockedDoor)
	}

	for _, n := range npcs {
		if !n.IsActive || n.Offscreen {
			continue
		}
		if glyph, ok := specialGlyphByGraphicsID[n.GraphicsID]; ok {
			set(n.X, n.Y, glyph)
			continue
		}
		set(n.X, n.Y, collision.TagNPC)
	}

	for _, bg := range bgEvents {
		tag := collision.TagInteractive
		if cell, ok := layout.At(bg.X, bg.Y); ok {
			if glyph, ok := bgGlyphByBehavior[layout.BehaviorID(cell.MetatileID)]; ok {
				tag = glyph
			}
		}
		set(bg.X, bg.Y, tag)
	}

	return outTags, outCodes
}

// TrimViewport crops the full map grid to a (windowW x windowH) window
// centered on the player, clamped so it never runs past the map's
// edges. Returns the cropped tag/code slices and the
// window's top-left origin in map-tile coordinates.
func TrimViewport(w, h int, tags []collision.Tag, codes []collision.MinimapCode, playerX, playerY, windowW, windowH int) (outTags []collision.Tag, outCodes []collision.MinimapCode, originX, originY int) {
	if windowW > w {
		windowW = w
	}
	if windowH > h {
		windowH = h
	}

	originX = playerX - windowW/2
	originY = playerY - windowH/2
	if originX < 0 {
		originX = 0
	}
	if originY < 0 {
		originY = 0
	}
	if originX+windowW > w {
		originX = w - windowW
	}
	if originY+windowH > h {
		originY = h - windowH
	}

	outTags = make([]collision.Tag, 0, windowW*windowH)
	outCodes = make([]collision.MinimapCode, 0, windowW*windowH)
	for y := originY; y < originY+windowH; y++ {
		for x := originX; x < originX+windowW; x++ {
			idx := y*w + x
			outTags = append(outTags, tags[idx])
			outCodes = append(outCodes, codes[idx])
		}
	}
	return outTags, outCodes, originX, originY
}

// GroundChange is one cell whose wall/walkable passability flipped
// between two classifier observations of the same map — either a
// fog refresh catching a scripted setmetatile, or a pre/post diff the
// input controller runs around a single step.
type GroundChange struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	WasWall bool `json:"wasWall"`
	IsWall  bool `json:"isWall"`
}

func isWallCode(code collision.MinimapCode) bool {
	legend := collision.Legend()
	entry, ok := legend[code]
	if !ok {
		return false
	}
	return entry.Passability == "wall"
}

// ApplyFog discovers the current viewport window and refreshes every
// previously-discovered cell against this frame's classifier output,
// then returns a masked code grid where undiscovered cells read as
// TagFog, along with the NPC/BG event lists filtered down to positions
// the player has actually seen. A viewport shape
// change (map transition to a different-sized layout) reports
// mismatch=true; the caller should treat this frame's grid as freshly
// blank rather than trust a stale discovery set. discovered counts
// newly-revealed cells and changes lists every wall/walkable flip
// RefreshDiscovered found, both consumed verbatim by the input
// controller's per-step fog hook.
func ApplyFog(engine *fog.Engine, mapGroup, mapNum uint8, fullW, fullH int, codes []collision.MinimapCode, viewport fog.Rect, npcs []events.NPC, bgEvents []events.BGEvent) (outCodes []collision.MinimapCode, visibleNPCs []events.NPC, visibleBGEvents []events.BGEvent, mismatch bool, discovered int, changes []GroundChange) {
	grid, mismatch := engine.EnsureGrid(mapGroup, mapNum, fullW, fullH)

	getCode := func(x, y int) (collision.MinimapCode, bool) {
		idx := y*fullW + x
		if idx < 0 || idx >= len(codes) {
			return 0, false
		}
		return codes[idx], true
	}

	if !mismatch {
		fog.RefreshDiscovered(grid, getCode, func(x, y int, old, new collision.MinimapCode) {
			if wasWall, isWall := isWallCode(old), isWallCode(new); wasWall != isWall {
				changes = append(changes, GroundChange{X: x, Y: y, WasWall: wasWall, IsWall: isWall})
			}
		})
	}
	fog.DiscoverRect(grid, viewport, getCode, func(x, y int) {
		discovered++
	})

	outCodes = make([]collision.MinimapCode, fullW*fullH)
	for y := 0; y < fullH; y++ {
		for x := 0; x < fullW; x++ {
			idx := y*fullW + x
			cell := grid.At(x, y)
			if !cell.Discovered {
				outCodes[idx] = collision.CodeFor(collision.TagFog)
				continue
			}
			outCodes[idx] = cell.Code
		}
	}

	for _, n := range npcs {
		if grid.At(n.X, n.Y).Discovered {
			visibleNPCs = append(visibleNPCs, n)
		}
	}
	for _, b := range bgEvents {
		if grid.At(b.X, b.Y).Discovered {
			visibleBGEvents = append(visibleBGEvents, b)
		}
	}

	return outCodes, visibleNPCs, visibleBGEvents, mismatch, discovered, changes
}
