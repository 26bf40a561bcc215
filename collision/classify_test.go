package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fireredbridge/corebridge/mapdata"
)

func grid1x1(cell mapdata.Cell, primaryBehavior BehaviorID) mapdata.Layout {
	behaviors := make([]BehaviorID, int(cell.MetatileID)+1)
	behaviors[cell.MetatileID] = primaryBehavior
	return mapdata.Layout{
		Width: 1, Height: 1,
		Cells:            []mapdata.Cell{cell},
		PrimaryBehaviors: behaviors,
	}
}

func TestClassify_SeedScenario4_CollisionBeatsBehaviorRefinement(t *testing.T) {
	// Cell 0x0C01 -> metatile 1, collision=3, elevation=0. Behavior at
	// metatile 1 is tall grass, but non-zero collision must still win.
	layout := grid1x1(mapdata.Cell{MetatileID: 1, Collision: 3, Elevation: 0}, behTallGrass)

	tags, codes := Classify(layout, 0, false)

	require.Equal(t, TagWall, tags[0])
	require.Equal(t, CodeFor(TagWall), codes[0])
}

func TestClassify_UndefinedCellIsAlwaysWall(t *testing.T) {
	layout := grid1x1(mapdata.Cell{MetatileID: 0x03FF, Collision: 0, Elevation: 0}, behNormal)
	tags, _ := Classify(layout, 0, false)
	require.Equal(t, TagWall, tags[0])
}

func TestClassify_LedgeBehaviorTakesPriorityOverElevation(t *testing.T) {
	layout := grid1x1(mapdata.Cell{MetatileID: 1, Collision: 0, Elevation: 5}, behLedgeSouth)
	tags, _ := Classify(layout, 1, false)
	require.Equal(t, TagLedgeSouth, tags[0])
}

func TestClassify_WaterfallBehaviorTakesPriorityOverCollision(t *testing.T) {
	// Waterfall behavior is checked before the non-zero-collision rule,
	// so even a collision-tagged waterfall cell reports as Waterfall.
	layout := grid1x1(mapdata.Cell{MetatileID: 1, Collision: 1, Elevation: 0}, behWaterfall)
	tags, _ := Classify(layout, 0, false)
	require.Equal(t, TagWaterfall, tags[0])
}

func TestClassify_NonZeroCollisionAlwaysWallWhenNotLedgeOrWaterfall(t *testing.T) {
	// Across every non-ledge/waterfall behavior id at several collision
	// values, non-zero collision must yield Wall.
	behaviors := []BehaviorID{behNormal, behTallGrass, behSurfableWater, behThinIce, behSpinner}
	for _, beh := range behaviors {
		for _, collision := range []uint8{1, 2, 3} {
			layout := grid1x1(mapdata.Cell{MetatileID: 1, Collision: collision, Elevation: 0}, beh)
			tags, _ := Classify(layout, 0, false)
			require.Equal(t, TagWall, tags[0], "behavior=%d collision=%d", beh, collision)
		}
	}
}

func TestClassify_ElevationMismatchWithoutMatchingNeighborStaysWalkable(t *testing.T) {
	layout := grid1x1(mapdata.Cell{MetatileID: 1, Collision: 0, Elevation: 5}, behNormal)
	tags, _ := Classify(layout, 1, false)
	require.Equal(t, TagWalkable, tags[0])
}

func TestClassify_ElevationMismatchWithMatchingNeighborIsWall(t *testing.T) {
	// A 2x1 strip: both cells have zero collision and elevation 5,
	// mismatching the player's elevation 1. Each cell has a
	// same-elevation, zero-collision neighbor, so the mismatched
	// target cell reads as unreachable.
	layout := mapdata.Layout{
		Width: 2, Height: 1,
		Cells: []mapdata.Cell{
			{MetatileID: 1, Collision: 0, Elevation: 5}, // neighbor: walkable at elevation 5
			{MetatileID: 1, Collision: 0, Elevation: 5}, // target: mismatches player elevation
		},
		PrimaryBehaviors: []BehaviorID{behNormal, behNormal},
	}
	tags, _ := Classify(layout, 1, false)
	require.Equal(t, TagWall, tags[0])
	require.Equal(t, TagWall, tags[1])
}

func TestClassify_SurfableElevationThreeAllowedWhileSurfing(t *testing.T) {
	layout := grid1x1(mapdata.Cell{MetatileID: 1, Collision: 0, Elevation: 3}, behSurfableWater)
	tags, _ := Classify(layout, 1, true)
	require.Equal(t, TagSurfableWater, tags[0])
}

func TestClassify_PlayerElevationZeroWalksAnyElevation(t *testing.T) {
	layout := grid1x1(mapdata.Cell{MetatileID: 1, Collision: 0, Elevation: 7}, behNormal)
	tags, _ := Classify(layout, 0, false)
	require.Equal(t, TagWalkable, tags[0])
}

func TestClassify_BehaviorRefinementOnWalkableCell(t *testing.T) {
	layout := grid1x1(mapdata.Cell{MetatileID: 1, Collision: 0, Elevation: 0}, behThinIce)
	tags, codes := Classify(layout, 0, false)
	require.Equal(t, TagThinIce, tags[0])
	require.Equal(t, CodeFor(TagThinIce), codes[0])
}

func TestClassify_UnknownBehaviorOnWalkableCellDowngradesToWalkable(t *testing.T) {
	layout := grid1x1(mapdata.Cell{MetatileID: 1, Collision: 0, Elevation: 0}, 255)
	tags, _ := Classify(layout, 0, false)
	require.Equal(t, TagWalkable, tags[0])
}
