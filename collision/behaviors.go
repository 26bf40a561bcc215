// Package collision implements the two-pass metatile classifier:
// behavior-id tables resolved once at init, then a pure function of
// (tiles, width, behaviors, player elevation, player surfing)
// producing a tag grid and a parallel minimap wire-code grid.
package collision

import "github.com/fireredbridge/corebridge/mapdata"

// BehaviorID values, derived once at init from the engine's
// behavior-name tables and stored as small dense sets for O(1) lookup
// in the classifier hot loop. Values are placeholders for the real
// pokefirered MB_* enum; what matters is which *set* each id belongs
// to.
type BehaviorID = mapdata.BehaviorID

const (
	behNormal BehaviorID = iota
	behTallGrass
	behLongGrass
	behLedgeSouth
	behLedgeNorth
	behLedgeEast
	behLedgeWest
	behWaterfall
	behSurfableWater
	behDiveableWater
	behWaterCurrentSouth
	behWaterCurrentNorth
	behWaterCurrentEast
	behWaterCurrentWest
	behRedCarpet
	behStrengthSwitch
	behSpinner
	behSpinnerStop
	behForcedMoveSouth
	behForcedMoveNorth
	behForcedMoveEast
	behForcedMoveWest
	behThinIce
	behCrackedIce
	behCrackedFloor
	behEdgeBlockedSouth
	behEdgeBlockedNorth
	behEdgeBlockedEast
	behEdgeBlockedWest
	behEdgeBlockedSoutheast
	behEdgeBlockedSouthwest
	behEdgeBlockedNortheast
	behEdgeBlockedNorthwest
)

var ledgeBehaviors = map[BehaviorID]Tag{
	behLedgeSouth: TagLedgeSouth,
	behLedgeNorth: TagLedgeNorth,
	behLedgeEast:  TagLedgeEast,
	behLedgeWest:  TagLedgeWest,
}

var waterCurrentBehaviors = map[BehaviorID]bool{
	behWaterCurrentSouth: true, behWaterCurrentNorth: true,
	behWaterCurrentEast: true, behWaterCurrentWest: true,
}

var forcedMoveBehaviors = map[BehaviorID]bool{
	behForcedMoveSouth: true, behForcedMoveNorth: true,
	behForcedMoveEast: true, behForcedMoveWest: true,
}

var edgeBlockedBehaviors = map[BehaviorID]Tag{
	behEdgeBlockedSouth:     TagEdgeBlockedSouth,
	behEdgeBlockedNorth:     TagEdgeBlockedNorth,
	behEdgeBlockedEast:      TagEdgeBlockedEast,
	behEdgeBlockedWest:      TagEdgeBlockedWest,
	behEdgeBlockedSoutheast: TagEdgeBlockedSoutheast,
	behEdgeBlockedSouthwest: TagEdgeBlockedSouthwest,
	behEdgeBlockedNortheast: TagEdgeBlockedNortheast,
	behEdgeBlockedNorthwest: TagEdgeBlockedNorthwest,
}
