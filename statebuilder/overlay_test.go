package statebuilder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fireredbridge/corebridge/collision"
	"github.com/fireredbridge/corebridge/events"
	"github.com/fireredbridge/corebridge/fog"
	"github.com/fireredbridge/corebridge/mapdata"
)

// flatLayout builds a w x h layout where every cell is metatile 0 and
// all eight primary behavior entries are zero; tests then set
// individual cells and behavior entries directly.
func flatLayout(w, h int) mapdata.Layout {
	l := mapdata.Layout{
		Width: w, Height: h,
		Cells:            make([]mapdata.Cell, w*h),
		PrimaryBehaviors: make([]mapdata.BehaviorID, 8),
	}
	return l
}

func uniformGrids(w, h int, tag collision.Tag) ([]collision.Tag, []collision.MinimapCode) {
	tags := make([]collision.Tag, w*h)
	codes := make([]collision.MinimapCode, w*h)
	for i := range tags {
		tags[i] = tag
		codes[i] = collision.CodeFor(tag)
	}
	return tags, codes
}

func TestComposeFullMap_ArrowWarpNextToWallBecomesDoor(t *testing.T) {
	l := flatLayout(3, 2)
	l.Cells[1*3+1] = mapdata.Cell{MetatileID: 1} // (1,1) carries the warp behavior
	l.PrimaryBehaviors[1] = behArrowWarpNorth

	tags, codes := uniformGrids(3, 2, collision.TagWalkable)
	tags[1] = collision.TagWall // (1,0), the warp's target
	codes[1] = collision.CodeFor(collision.TagWall)

	outTags, outCodes := ComposeFullMap(l, tags, codes, MapKey{}, NewOverlayConfig(), nil, nil)
	require.Equal(t, collision.TagDoor, outTags[1])
	require.Equal(t, collision.CodeFor(collision.TagDoor), outCodes[1])
	// The warp tile itself stays as classified.
	require.Equal(t, collision.TagWalkable, outTags[1*3+1])
}

func TestComposeFullMap_StairWarpDisplacesVisual(t *testing.T) {
	l := flatLayout(1, 3)
	l.Cells[1] = mapdata.Cell{MetatileID: 2} // (0,1)
	l.PrimaryBehaviors[2] = behStairWarpUp

	tags, codes := uniformGrids(1, 3, collision.TagWalkable)
	outTags, _ := ComposeFullMap(l, tags, codes, MapKey{}, NewOverlayConfig(), nil, nil)

	require.Equal(t, collision.TagStairs, outTags[0])    // tile + delta
	require.Equal(t, collision.TagRedCarpet, outTags[1]) // source tile
}

func TestComposeFullMap_NPCAndSpecialGraphics(t *testing.T) {
	l := flatLayout(3, 1)
	tags, codes := uniformGrids(3, 1, collision.TagWalkable)

	npcs := []events.NPC{
		{LocalID: 1, GraphicsID: 99, X: 0, Y: 0, IsActive: true},
		{LocalID: 2, GraphicsID: gfxItemBall, X: 1, Y: 0, IsActive: true},
		{LocalID: 3, GraphicsID: 99, X: 2, Y: 0, IsActive: false}, // inactive, not drawn
	}
	outTags, _ := ComposeFullMap(l, tags, codes, MapKey{}, NewOverlayConfig(), npcs, nil)

	require.Equal(t, collision.TagNPC, outTags[0])
	require.Equal(t, collision.TagItemBall, outTags[1])
	require.Equal(t, collision.TagWalkable, outTags[2])
}

func TestComposeFullMap_BGEventDeviceGlyphFromBehavior(t *testing.T) {
	l := flatLayout(2, 1)
	l.Cells[0] = mapdata.Cell{MetatileID: 3} // (0,0) sits on a PC metatile
	l.PrimaryBehaviors[3] = behDevicePC

	tags, codes := uniformGrids(2, 1, collision.TagWall)
	bgs := []events.BGEvent{{X: 0, Y: 0}, {X: 1, Y: 0}}

	outTags, _ := ComposeFullMap(l, tags, codes, MapKey{}, NewOverlayConfig(), nil, bgs)
	require.Equal(t, collision.TagPC, outTags[0])
	require.Equal(t, collision.TagInteractive, outTags[1])
}

func TestComposeFullMap_LockedDoorOnlyOverWall(t *testing.T) {
	l := flatLayout(2, 1)
	tags, codes := uniformGrids(2, 1, collision.TagWall)
	tags[1] = collision.TagWalkable // already unlocked underneath
	codes[1] = collision.CodeFor(collision.TagWalkable)

	cfg := NewOverlayConfig()
	key := MapKey{MapGroup: 3, MapNum: 9}
	cfg.LockedDoors[key] = []TilePos{{X: 0, Y: 0}, {X: 1, Y: 0}}

	outTags, _ := ComposeFullMap(l, tags, codes, key, cfg, nil, nil)
	require.Equal(t, collision.TagLockedDoor, outTags[0])
	require.Equal(t, collision.TagWalkable, outTags[1])
}

func TestTrimViewport_CentersAndClamps(t *testing.T) {
	w, h := 20, 20
	tags, codes := uniformGrids(w, h, collision.TagWalkable)

	_, _, ox, oy := TrimViewport(w, h, tags, codes, 10, 10, 15, 10)
	require.Equal(t, 3, ox)
	require.Equal(t, 5, oy)

	// Player in the top-left corner clamps the origin to 0.
	_, _, ox, oy = TrimViewport(w, h, tags, codes, 0, 0, 15, 10)
	require.Equal(t, 0, ox)
	require.Equal(t, 0, oy)

	// Player in the bottom-right corner clamps to the far edge.
	outTags, _, ox, oy := TrimViewport(w, h, tags, codes, 19, 19, 15, 10)
	require.Equal(t, 5, ox)
	require.Equal(t, 10, oy)
	require.Len(t, outTags, 15*10)
}

func TestTrimViewport_WindowLargerThanMap(t *testing.T) {
	w, h := 4, 3
	tags, codes := uniformGrids(w, h, collision.TagWalkable)
	outTags, outCodes, ox, oy := TrimViewport(w, h, tags, codes, 2, 1, 15, 10)
	require.Equal(t, 0, ox)
	require.Equal(t, 0, oy)
	require.Len(t, outTags, w*h)
	require.Len(t, outCodes, w*h)
}

func TestApplyFog_MasksUndiscoveredAndFiltersEvents(t *testing.T) {
	engine := fog.NewEngine()
	w, h := 4, 4
	_, codes := uniformGrids(w, h, collision.TagWalkable)

	npcs := []events.NPC{
		{LocalID: 1, X: 0, Y: 0},
		{LocalID: 2, X: 3, Y: 3},
	}
	bgs := []events.BGEvent{{X: 1, Y: 0}, {X: 3, Y: 2}}

	viewport := fog.Rect{X: 0, Y: 0, Width: 2, Height: 2}
	outCodes, visNPCs, visBGs, mismatch, discovered, changes := ApplyFog(engine, 1, 2, w, h, codes, viewport, npcs, bgs)

	require.False(t, mismatch)
	require.Equal(t, 4, discovered)
	require.Empty(t, changes)

	fogCode := collision.CodeFor(collision.TagFog)
	require.Equal(t, collision.CodeFor(collision.TagWalkable), outCodes[0])
	require.Equal(t, fogCode, outCodes[3*w+3])

	require.Len(t, visNPCs, 1)
	require.Equal(t, 1, visNPCs[0].LocalID)
	require.Len(t, visBGs, 1)
	require.Equal(t, 1, visBGs[0].X)
}

func TestApplyFog_RefreshReportsWallFlips(t *testing.T) {
	engine := fog.NewEngine()
	w, h := 2, 1
	_, codes := uniformGrids(w, h, collision.TagWalkable)
	viewport := fog.Rect{X: 0, Y: 0, Width: 2, Height: 1}

	_, _, _, _, discovered, _ := ApplyFog(engine, 1, 2, w, h, codes, viewport, nil, nil)
	require.Equal(t, 2, discovered)

	// A scripted setmetatile turned (1,0) into a wall.
	codes[1] = collision.CodeFor(collision.TagWall)
	_, _, _, _, discovered, changes := ApplyFog(engine, 1, 2, w, h, codes, viewport, nil, nil)
	require.Zero(t, discovered)
	require.Len(t, changes, 1)
	require.Equal(t, GroundChange{X: 1, Y: 0, WasWall: false, IsWall: true}, changes[0])
}

func TestApplyFog_ShapeMismatchSkipsRefresh(t *testing.T) {
	engine := fog.NewEngine()
	_, codes := uniformGrids(2, 2, collision.TagWalkable)
	viewport := fog.Rect{X: 0, Y: 0, Width: 2, Height: 2}
	_, _, _, mismatch, _, _ := ApplyFog(engine, 1, 2, 2, 2, codes, viewport, nil, nil)
	require.False(t, mismatch)

	_, bigger := uniformGrids(3, 3, collision.TagWalkable)
	_, _, _, mismatch, _, changes := ApplyFog(engine, 1, 2, 3, 3, bigger, fog.Rect{X: 0, Y: 0, Width: 3, Height: 3}, nil, nil)
	require.True(t, mismatch)
	require.Empty(t, changes)
}
