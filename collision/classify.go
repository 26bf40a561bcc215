package collision

import (
	"github.com/fireredbridge/corebridge/mapdata"
	"github.com/fireredbridge/corebridge/schema"
)

// cellInfo is pass 1's extracted per-cell fields.
type cellInfo struct {
	metatileID uint16
	collision  uint8
	elevation  uint8
	behavior   BehaviorID
}

// Classify runs the two-pass classifier over a decoded Layout,
// producing a parallel tag grid and minimap-code grid. It is a
// pure function of its inputs.
func Classify(layout mapdata.Layout, playerElevation uint8, playerSurfing bool) ([]Tag, []MinimapCode) {
	w, h := layout.Width, layout.Height
	infos := make([]cellInfo, w*h)

	// Pass 1: extract.
	for i, cell := range layout.Cells {
		infos[i] = cellInfo{
			metatileID: cell.MetatileID,
			collision:  cell.Collision,
			elevation:  cell.Elevation,
			behavior:   layout.BehaviorID(cell.MetatileID),
		}
	}

	tags := make([]Tag, w*h)
	codes := make([]MinimapCode, w*h)

	// Pass 2: classify, in priority order.
	for i, info := range infos {
		x, y := i%w, i/w
		tag := classifyCell(infos, w, h, x, y, info, playerElevation, playerSurfing)
		tags[i] = tag
		codes[i] = CodeFor(tag)
	}

	return tags, codes
}

func classifyCell(infos []cellInfo, w, h, x, y int, info cellInfo, playerElevation uint8, playerSurfing bool) Tag {
	// 1. Undefined cell.
	if info.metatileID == schema.MapGridUndefined {
		return TagWall
	}

	// 2. Ledge / waterfall behaviors take priority over everything else.
	if tag, ok := ledgeBehaviors[info.behavior]; ok {
		return tag
	}
	if info.behavior == behWaterfall {
		return TagWaterfall
	}

	// 3. Non-zero collision bits.
	if info.collision != 0 {
		return TagWall
	}

	// 4. Elevation-based passability.
	walkable := info.elevation == 0 ||
		playerElevation == 0 ||
		info.elevation == playerElevation ||
		(info.elevation == 3 && playerSurfing)

	if !walkable && hasMatchingNeighborOnTop(infos, w, h, x, y, info.elevation) {
		return TagWall
	}

	// 5. Refine the walkable result by behavior.
	tag := refineWalkable(info.behavior)

	// 6. Refinements never overwrite explicit collision; collision was
	// already handled in step 3, so nothing further to guard here —
	// this refinement only ever runs on cells that passed step 3/4.
	return tag
}

// hasMatchingNeighborOnTop reports whether an orthogonal neighbor has
// the same elevation and zero collision, meaning the player standing
// on that neighbor's level makes this cell unreachable.
func hasMatchingNeighborOnTop(infos []cellInfo, w, h, x, y int, elevation uint8) bool {
	deltas := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for _, d := range deltas {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || ny < 0 || nx >= w || ny >= h {
			continue
		}
		n := infos[ny*w+nx]
		if n.elevation == elevation && n.collision == 0 {
			return true
		}
	}
	return false
}

// refineWalkable applies the behavior-based refinements to an
// already-walkable cell.
func refineWalkable(behavior BehaviorID) Tag {
	switch {
	case waterCurrentBehaviors[behavior]:
		return TagWaterCurrent
	case forcedMoveBehaviors[behavior]:
		return TagForcedMove
	}
	if tag, ok := edgeBlockedBehaviors[behavior]; ok {
		return tag
	}
	switch behavior {
	case behDiveableWater:
		return TagDiveableWater
	case behSurfableWater:
		return TagSurfableWater
	case behTallGrass:
		return TagTallGrass
	case behLongGrass:
		return TagLongGrass
	case behRedCarpet:
		return TagRedCarpet
	case behStrengthSwitch:
		return TagStrengthSwitch
	case behSpinner:
		return TagSpinner
	case behSpinnerStop:
		return TagSpinnerStop
	case behThinIce:
		return TagThinIce
	case behCrackedIce:
		return TagCrackedIce
	case behCrackedFloor:
		return TagCrackedFloor
	default:
		// An unknown behavior id on a walkable tile downgrades to
		// Walkable rather than failing.
		return TagWalkable
	}
}
