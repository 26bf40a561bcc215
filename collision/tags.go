package collision

// Tag is one classified cell's semantic glyph tag.
type Tag string

const (
	TagWall      Tag = "Wall"
	TagWalkable  Tag = "Walkable"
	TagWaterfall Tag = "Waterfall"

	TagLedgeSouth Tag = "LedgeSouth"
	TagLedgeNorth Tag = "LedgeNorth"
	TagLedgeEast  Tag = "LedgeEast"
	TagLedgeWest  Tag = "LedgeWest"

	TagWaterCurrent  Tag = "WaterCurrent"
	TagDiveableWater Tag = "DiveableWater"
	TagSurfableWater Tag = "SurfableWater"
	TagTallGrass     Tag = "TallGrass"
	TagLongGrass     Tag = "LongGrass"
	TagRedCarpet     Tag = "RedCarpet"
	TagStrengthSwitch Tag = "StrengthSwitch"
	TagSpinner       Tag = "Spinner"
	TagSpinnerStop   Tag = "SpinnerStop"
	TagForcedMove    Tag = "ForcedMove"
	TagThinIce       Tag = "ThinIce"
	TagCrackedIce    Tag = "CrackedIce"
	TagCrackedFloor  Tag = "CrackedFloor"

	// TagWarp, TagNPC and TagInteractive are never produced by Classify
	// itself (warps/NPCs/interactive objects come from the events
	// overlay, not the metatile grid); declared here so the legend
	// table has a real constant key instead of a raw string.
	TagWarp        Tag = "Warp"
	TagNPC         Tag = "NPC"
	TagInteractive Tag = "Interactive"

	TagEdgeBlockedSouth     Tag = "EdgeBlockedSouth"
	TagEdgeBlockedNorth     Tag = "EdgeBlockedNorth"
	TagEdgeBlockedEast      Tag = "EdgeBlockedEast"
	TagEdgeBlockedWest      Tag = "EdgeBlockedWest"
	TagEdgeBlockedSoutheast Tag = "EdgeBlockedSoutheast"
	TagEdgeBlockedSouthwest Tag = "EdgeBlockedSouthwest"
	TagEdgeBlockedNortheast Tag = "EdgeBlockedNortheast"
	TagEdgeBlockedNorthwest Tag = "EdgeBlockedNorthwest"

	// The following are never produced by Classify; they're laid down by
	// statebuilder's full-map overlay composition over an
	// already-classified grid, same reasoning as TagWarp/TagNPC above.
	TagDoor           Tag = "Door"
	TagStairs         Tag = "Stairs"
	TagLockedDoor     Tag = "LockedDoor"
	TagTemporaryWall  Tag = "TemporaryWall"
	TagItemBall       Tag = "ItemBall"
	TagPushableBoulder Tag = "PushableBoulder"
	TagCutTree        Tag = "CutTree"
	TagSmashableRock  Tag = "SmashableRock"
	TagPC             Tag = "PC"
	TagTV             Tag = "TV"
	TagBookshelf      Tag = "Bookshelf"
	TagShopShelf      Tag = "ShopShelf"
	TagTrashCan       Tag = "TrashCan"
	TagRegionMapSign  Tag = "RegionMapSign"
	TagFog            Tag = "Fog"
)

// MinimapCode is a stable, enumerated wire value for one tag. Values must never be renumbered once shipped.
type MinimapCode int

// MinimapLegendEntry carries the wire-level metadata for one code.
type MinimapLegendEntry struct {
	Code          MinimapCode
	Glyph         string
	Label         string
	Passability   string // "walkable" | "wall"
	IsBaseTerrain bool
	ShowInLegend  bool
}

// legend is the stable code table. Clients persist the numeric values,
// so they must never change; new tags append at the end.
var legend = map[Tag]MinimapLegendEntry{
	TagWall:      {0, "#", "Wall", "wall", true, true},
	TagWalkable:  {1, ".", "Free ground", "walkable", true, true},
	TagTallGrass: {2, ",", "Tall grass", "walkable", true, true},
	TagSurfableWater: {3, "~", "Water", "walkable", true, true},
	TagWaterfall: {4, "^", "Waterfall", "wall", false, true},

	TagLedgeSouth: {5, "v", "Ledge (south)", "walkable", false, true},
	TagLedgeNorth: {6, "^", "Ledge (north)", "walkable", false, true},
	TagLedgeEast:  {7, ">", "Ledge (east)", "walkable", false, true},
	TagLedgeWest:  {8, "<", "Ledge (west)", "walkable", false, true},

	TagWarp:        {9, "W", "Warp", "walkable", false, true},
	TagNPC:         {10, "@", "NPC", "wall", false, true},
	TagInteractive: {11, "!", "Interactive", "wall", false, true},

	TagDiveableWater:  {12, "d", "Diveable water", "walkable", false, true},
	TagWaterCurrent:   {13, "c", "Water current", "walkable", false, true},
	TagLongGrass:      {14, ";", "Long grass", "walkable", true, true},
	TagRedCarpet:      {15, "r", "Red carpet", "walkable", false, true},
	TagStrengthSwitch: {16, "s", "Strength switch", "walkable", false, true},
	TagSpinner:        {17, "o", "Spinner", "walkable", false, true},
	TagSpinnerStop:    {18, "O", "Spinner (stop)", "walkable", false, true},
	TagForcedMove:     {19, "f", "Forced movement", "walkable", false, true},
	TagThinIce:        {20, "i", "Thin ice", "walkable", false, true},
	TagCrackedIce:     {21, "I", "Cracked ice", "walkable", false, true},

	TagEdgeBlockedSouth:     {130, "1", "Edge-blocked (south)", "walkable", false, false},
	TagEdgeBlockedNorth:     {131, "2", "Edge-blocked (north)", "walkable", false, false},
	TagEdgeBlockedEast:      {132, "3", "Edge-blocked (east)", "walkable", false, false},
	TagEdgeBlockedWest:      {133, "4", "Edge-blocked (west)", "walkable", false, false},
	TagEdgeBlockedSoutheast: {134, "5", "Edge-blocked (southeast)", "walkable", false, false},
	TagEdgeBlockedSouthwest: {135, "6", "Edge-blocked (southwest)", "walkable", false, false},
	TagEdgeBlockedNortheast: {136, "7", "Edge-blocked (northeast)", "walkable", false, false},
	TagEdgeBlockedNorthwest: {137, "8", "Edge-blocked (northwest)", "walkable", false, false},

	TagCrackedFloor: {140, "x", "Cracked floor", "walkable", false, true},

	// Overlay-only codes, appended after the classifier's own range so
	// existing numeric values stay stable.
	TagDoor:            {141, "D", "Door", "wall", false, true},
	TagStairs:          {142, "S", "Stairs", "walkable", false, true},
	TagLockedDoor:      {143, "L", "Locked door", "wall", false, true},
	TagTemporaryWall:   {144, "T", "Temporary wall", "wall", false, true},
	TagItemBall:        {145, "b", "Item ball", "wall", false, true},
	TagPushableBoulder:  {146, "B", "Pushable boulder", "wall", false, true},
	TagCutTree:         {147, "t", "Cuttable tree", "wall", false, true},
	TagSmashableRock:   {148, "k", "Smashable rock", "wall", false, true},
	TagPC:              {149, "p", "PC", "wall", false, true},
	TagTV:              {150, "v", "TV", "wall", false, true},
	TagBookshelf:       {151, "h", "Bookshelf", "wall", false, true},
	TagShopShelf:       {152, "y", "Shop shelf", "wall", false, true},
	TagTrashCan:        {153, "g", "Trash can", "wall", false, true},
	TagRegionMapSign:   {154, "m", "Region map", "wall", false, true},
	TagFog:             {155, "?", "Undiscovered", "wall", false, true},
}

// CodeFor returns the stable minimap code for a tag, or -1 if the tag
// has no legend entry (should never happen for a classifier output).
func CodeFor(tag Tag) MinimapCode {
	if e, ok := legend[tag]; ok {
		return e.Code
	}
	return -1
}

// LegendEntry returns the full legend metadata for a tag.
func LegendEntry(tag Tag) (MinimapLegendEntry, bool) {
	e, ok := legend[tag]
	return e, ok
}

// Legend returns the full stable code table, keyed by numeric code,
// for building the snapshot's minimap_legend.
func Legend() map[MinimapCode]MinimapLegendEntry {
	out := make(map[MinimapCode]MinimapLegendEntry, len(legend))
	for _, e := range legend {
		out[e.Code] = e
	}
	return out
}
