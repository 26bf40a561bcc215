package statebuilder

import (
	"fmt"

	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

// MaxViewportWidth and MaxViewportHeight are the engine's normal
// on-screen metatile grid dimensions; every reduced window clamps to
// these.
const (
	MaxViewportWidth  = 15
	MaxViewportHeight = 10
)

// VisibilityCause names why the viewport window is reduced below the
// full screen size.
type VisibilityCause string

const (
	CauseNone     VisibilityCause = "none"
	CauseDarkness VisibilityCause = "darkness"
	CausePyramid  VisibilityCause = "pyramid"
)

// FlashHint is a human-facing classification of whether using Flash
// would help right now.
type FlashHint string

const (
	HintFlashActive  FlashHint = "flash_active"
	HintFlashCanHelp FlashHint = "flash_can_help"
	HintNotApplicable FlashHint = "not_applicable"
)

// flashLevelToRadiusPx maps SaveBlock1.flashLevel to the engine's scan
// window radius in pixels.
var flashLevelToRadiusPx = [...]int{200, 72, 64, 56, 48, 40, 32, 24, 0}

// Visibility is the computed viewport window for the current frame.
type Visibility struct {
	Reduced            bool            `json:"reduced"`
	WidthTiles         int             `json:"widthTiles"`
	HeightTiles        int             `json:"heightTiles"`
	Cause              VisibilityCause `json:"cause"`
	Hint               FlashHint       `json:"hint"`
	FlashLevel         int             `json:"flashLevel"`
	PyramidLightRadius *int            `json:"pyramidLightRadius"`
	MapLayoutID        uint16          `json:"mapLayoutId"`

	FlashNeeded bool `json:"flashNeeded"`
	FlashActive bool `json:"flashActive"`
}

// ComputeVisibility reads the cave flag, flash/strength system flags
// (already decoded in flagsBytes from ReadPlayer), the current map's
// layout id, flashLevel and the pyramid light radius, then derives the
// effective viewport window by a three-cause priority order:
// pyramid beats darkness-from-missing-flash beats
// darkness-from-active-flash beats none.
func ComputeVisibility(client *memory.Client, cat *schema.Catalog, flagsBytes []byte, sb1Ptr, sb2Ptr schema.Address) (Visibility, error) {
	caveByte, err := client.ReadU8(cat.CurrentMapHeaderAddr + schema.MapHeaderCaveOffset)
	if err != nil {
		return Visibility{}, err
	}
	flashNeeded := caveByte != 0

	flashActive := flashNeeded && schema.FlagSet(flagsBytes, cat.Flag("FLAG_SYS_USE_FLASH"))

	ranges := []memory.Range{
		{Addr: cat.CurrentMapHeaderAddr + schema.MapHeaderMapLayoutIDOffset, Len: 2},
	}
	flashLevelIdx := -1
	if sb1Ptr != 0 {
		flashLevelIdx = len(ranges)
		ranges = append(ranges, memory.Range{Addr: sb1Ptr + schema.SaveBlock1FlashLevelOffset, Len: 1})
	}
	pyramidIdx := -1
	if sb2Ptr != 0 {
		pyramidIdx = len(ranges)
		ranges = append(ranges, memory.Range{Addr: sb2Ptr + schema.SaveBlock2PyramidLightRadiusOffset, Len: 1})
	}

	segments, err := client.ReadRanges(ranges)
	if err != nil {
		return Visibility{}, err
	}
	if len(segments) < len(ranges) || len(segments[0]) < 2 {
		return Visibility{}, fmt.Errorf("statebuilder: short visibility read")
	}

	mapLayoutID := encoding.Read16(segments[0], 0)
	flashLevel := 0
	if flashLevelIdx >= 0 && len(segments[flashLevelIdx]) > 0 {
		flashLevel = int(segments[flashLevelIdx][0])
	}

	var pyramidLightRadius *int
	if pyramidIdx >= 0 && len(segments[pyramidIdx]) > 0 {
		v := int(segments[pyramidIdx][0])
		pyramidLightRadius = &v
	}

	inPyramid := mapLayoutID == schema.PyramidFloorLayoutID || mapLayoutID == schema.PyramidTopLayoutID

	v := Visibility{
		WidthTiles:         MaxViewportWidth,
		HeightTiles:        MaxViewportHeight,
		Cause:              CauseNone,
		FlashLevel:         flashLevel,
		PyramidLightRadius: pyramidLightRadius,
		MapLayoutID:        mapLayoutID,
		FlashNeeded:        flashNeeded,
		FlashActive:        flashActive,
	}

	applySquareWindow := func(size int) {
		v.WidthTiles = min(MaxViewportWidth, size)
		v.HeightTiles = min(MaxViewportHeight, size)
		v.Reduced = v.WidthTiles != MaxViewportWidth || v.HeightTiles != MaxViewportHeight
	}

	switch {
	case inPyramid && pyramidLightRadius != nil:
		radiusTiles := max(0, *pyramidLightRadius/16)
		applySquareWindow(max(1, 2*radiusTiles+1))
		v.Cause = CausePyramid
	case flashNeeded && !flashActive:
		applySquareWindow(3)
		v.Cause = CauseDarkness
	case flashActive && flashLevel > 0:
		idx := flashLevel
		if idx >= len(flashLevelToRadiusPx) {
			idx = len(flashLevelToRadiusPx) - 1
		}
		radiusTiles := max(0, flashLevelToRadiusPx[idx]/16)
		applySquareWindow(max(1, 2*radiusTiles+1))
		v.Cause = CauseDarkness
	}

	switch {
	case v.Cause == CausePyramid:
		v.Hint = HintNotApplicable
	case flashNeeded:
		if flashActive {
			v.Hint = HintFlashActive
		} else {
			v.Hint = HintFlashCanHelp
		}
	default:
		v.Hint = HintNotApplicable
	}

	return v, nil
}
