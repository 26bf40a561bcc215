// Package mapdata reads the current map's metatile grid and tileset
// behavior tables in staged batched reads, deriving the effective grid
// from the engine's backup (VMap) copy, the grid the engine actually
// resolves scripted tile mutations against, when it covers the whole
// map plus its MapOffset border.
package mapdata

import (
	"fmt"

	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

// Cell is one unpacked map-grid entry.
type Cell struct {
	MetatileID uint16
	Collision  uint8
	Elevation  uint8
}

// unpackCell splits a raw 16-bit grid cell into its three fields.
func unpackCell(raw uint16) Cell {
	return Cell{
		MetatileID: raw & schema.MapGridMetatileIDMask,
		Collision:  uint8((raw & schema.MapGridCollisionMask) >> schema.MapGridCollisionShift),
		Elevation:  uint8((raw & schema.MapGridElevationMask) >> schema.MapGridElevationShift),
	}
}

// BehaviorID is the 9-bit per-metatile behavior tag carried by the
// tileset attribute table.
type BehaviorID = uint16

// Layout is the decoded, effective map grid for the current frame,
// plus the behavior-id lookup for both tilesets.
type Layout struct {
	Width, Height int

	// Cells is the effective grid: derived from the backup (VMap) grid
	// when it covers the whole map plus its MapOffset border, else the
	// raw main grid.
	Cells []Cell

	DerivedFromBackup bool

	PrimaryBehaviors   []BehaviorID // indexed by local metatile id
	SecondaryBehaviors []BehaviorID
}

// At returns the cell at (x,y), or the zero Cell if out of bounds.
func (l Layout) At(x, y int) (Cell, bool) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return Cell{}, false
	}
	return l.Cells[y*l.Width+x], true
}

// BehaviorID resolves a metatile id to its behavior id, picking the
// primary or secondary tileset's table by metatile-id range.
func (l Layout) BehaviorID(metatileID uint16) BehaviorID {
	if int(metatileID) < schema.PrimaryTilesetMetatileCount {
		if int(metatileID) < len(l.PrimaryBehaviors) {
			return l.PrimaryBehaviors[metatileID]
		}
		return 0
	}
	idx := int(metatileID) - schema.PrimaryTilesetMetatileCount
	if idx < len(l.SecondaryBehaviors) {
		return l.SecondaryBehaviors[idx]
	}
	return 0
}

// decodeGrid turns a w*h*2-byte raw grid segment into unpacked cells.
func decodeGrid(raw []byte, w, h int) []Cell {
	cells := make([]Cell, w*h)
	for i := range cells {
		off := i * schema.BytesPerTile
		if off+2 > len(raw) {
			break
		}
		cells[i] = unpackCell(encoding.Read16(raw, off))
	}
	return cells
}

// decodeBehaviors decodes a tileset's attribute blob into one behavior
// id per metatile.
func decodeBehaviors(raw []byte, count int) []BehaviorID {
	out := make([]BehaviorID, count)
	for i := 0; i < count; i++ {
		off := i * schema.TilesetAttributeEntrySize
		if off+2 > len(raw) {
			break
		}
		out[i] = encoding.Read16(raw, off) & schema.TilesetAttributeBehaviorMask
	}
	return out
}

// covers reports whether a backup (VMap) grid of size (backupW,
// backupH) covers a main grid of size (w,h) padded by MAP_OFFSET on
// every side.
func covers(backupW, backupH, w, h int) bool {
	return backupW >= w+2*schema.MapOffset+1 && backupH >= h+2*schema.MapOffset
}

// deriveFromBackup extracts the w x h window starting at
// (MAP_OFFSET, MAP_OFFSET) out of the backup grid, which is what the
// engine actually reads at runtime.
func deriveFromBackup(backup []Cell, backupW, w, h int) []Cell {
	out := make([]Cell, w*h)
	for y := 0; y < h; y++ {
		srcY := y + schema.MapOffset
		for x := 0; x < w; x++ {
			srcX := x + schema.MapOffset
			out[y*w+x] = backup[srcY*backupW+srcX]
		}
	}
	return out
}

// AttributeCache memoizes decoded tileset behavior tables by the
// attribute blob's source address — species-table-style "resolve once,
// ROM-static for the process lifetime" memoization.
type AttributeCache struct {
	entries map[schema.Address][]BehaviorID
}

// NewAttributeCache returns an empty cache.
func NewAttributeCache() *AttributeCache {
	return &AttributeCache{entries: make(map[schema.Address][]BehaviorID)}
}

func (c *AttributeCache) get(addr schema.Address) ([]BehaviorID, bool) {
	v, ok := c.entries[addr]
	return v, ok
}

func (c *AttributeCache) put(addr schema.Address, behaviors []BehaviorID) {
	c.entries[addr] = behaviors
}

// StaticKey identifies the parts of a map read that don't change
// frame-to-frame for a given map.
type StaticKey struct {
	LayoutBase      schema.Address
	BackupWidth     int
	BackupHeight    int
	BackupDataAddr  schema.Address
}

// staticResult is the cacheable half of a map read: dimensions and
// tileset behavior tables, independent of the bulk grid bytes that
// change every frame.
type staticResult struct {
	width, height               int
	mapGridAddr                 schema.Address
	primaryAttrAddr, secondaryAttrAddr schema.Address
	primaryBehaviors, secondaryBehaviors []BehaviorID
}

// StaticCache memoizes staticResult by StaticKey across frames.
type StaticCache struct {
	key    StaticKey
	result staticResult
	valid  bool
}

func (c *StaticCache) get(k StaticKey) (staticResult, bool) {
	if !c.valid || c.key != k {
		return staticResult{}, false
	}
	return c.result, true
}

func (c *StaticCache) put(k StaticKey, r staticResult) {
	c.key = k
	c.result = r
	c.valid = true
}

// Read performs the four staged batched reads and returns the
// effective Layout for the current frame.
func Read(client *memory.Client, cat *schema.Catalog, attrCache *AttributeCache, staticCache *StaticCache) (Layout, error) {
	// Stage 1: map header -> layout pointer; backup map dims + data ptr.
	headerAndBackup, err := client.ReadRanges([]memory.Range{
		{Addr: cat.CurrentMapHeaderAddr + schema.MapHeaderMapLayoutOffset, Len: 4},
		{Addr: cat.BackupMapLayoutAddr, Len: 12},
	})
	if err != nil {
		return Layout{}, err
	}
	if !segmentsComplete(headerAndBackup, 4, 12) {
		return Layout{}, fmt.Errorf("mapdata: short map header read")
	}
	layoutBase := schema.Address(encoding.Read32(headerAndBackup[0], 0))
	backupW := int(encoding.Read32(headerAndBackup[1], schema.BackupMapLayoutWidthOffset))
	backupH := int(encoding.Read32(headerAndBackup[1], schema.BackupMapLayoutHeightOffset))
	backupDataAddr := schema.Address(encoding.Read32(headerAndBackup[1], schema.BackupMapDataPtrOffset))

	staticKey := StaticKey{LayoutBase: layoutBase, BackupWidth: backupW, BackupHeight: backupH, BackupDataAddr: backupDataAddr}

	var sr staticResult
	if cached, ok := staticCache.get(staticKey); ok {
		sr = cached
	} else {
		// Stage 2: layout -> dims, grid pointer, tileset pointers.
		layoutFields, err := client.ReadRange(layoutBase, 0x14)
		if err != nil {
			return Layout{}, err
		}
		if len(layoutFields) < 0x14 {
			return Layout{}, fmt.Errorf("mapdata: short map layout read")
		}
		w := int(encoding.Read32(layoutFields, schema.MapLayoutWidthOffset))
		h := int(encoding.Read32(layoutFields, schema.MapLayoutHeightOffset))
		mapGridAddr := schema.Address(encoding.Read32(layoutFields, schema.MapLayoutMapGridOffset))
		primaryTileset := schema.Address(encoding.Read32(layoutFields, schema.MapLayoutPrimaryTilesetOffset))
		secondaryTileset := schema.Address(encoding.Read32(layoutFields, schema.MapLayoutSecondaryTilesetOffset))

		// Stage 3: each tileset's attribute pointer.
		attrPtrs, err := client.ReadRanges([]memory.Range{
			{Addr: primaryTileset + schema.TilesetMetatileAttributesPointerOffset, Len: 4},
			{Addr: secondaryTileset + schema.TilesetMetatileAttributesPointerOffset, Len: 4},
		})
		if err != nil {
			return Layout{}, err
		}
		if !segmentsComplete(attrPtrs, 4, 4) {
			return Layout{}, fmt.Errorf("mapdata: short tileset pointer read")
		}
		primaryAttrAddr := schema.Address(encoding.Read32(attrPtrs[0], 0))
		secondaryAttrAddr := schema.Address(encoding.Read32(attrPtrs[1], 0))

		primaryBehaviors, err := loadBehaviors(client, attrCache, primaryAttrAddr, schema.PrimaryTilesetMetatileCount)
		if err != nil {
			return Layout{}, err
		}
		secondaryBehaviors, err := loadBehaviors(client, attrCache, secondaryAttrAddr, schema.SecondaryTilesetMetatileCount)
		if err != nil {
			return Layout{}, err
		}

		sr = staticResult{
			width: w, height: h, mapGridAddr: mapGridAddr,
			primaryAttrAddr: primaryAttrAddr, secondaryAttrAddr: secondaryAttrAddr,
			primaryBehaviors: primaryBehaviors, secondaryBehaviors: secondaryBehaviors,
		}
		staticCache.put(staticKey, sr)
	}

	// Stage 4: bulk grid data (main + backup), every frame.
	gridSegments, err := client.ReadRanges([]memory.Range{
		{Addr: sr.mapGridAddr, Len: sr.width * sr.height * schema.BytesPerTile},
		{Addr: backupDataAddr, Len: backupW * backupH * schema.BytesPerTile},
	})
	if err != nil {
		return Layout{}, err
	}
	// decodeGrid tolerates short bytes; only the segment count itself
	// needs checking here.
	if len(gridSegments) < 2 {
		return Layout{}, fmt.Errorf("mapdata: short grid read")
	}
	mainCells := decodeGrid(gridSegments[0], sr.width, sr.height)
	backupCells := decodeGrid(gridSegments[1], backupW, backupH)

	layout := Layout{
		Width: sr.width, Height: sr.height,
		PrimaryBehaviors: sr.primaryBehaviors, SecondaryBehaviors: sr.secondaryBehaviors,
	}
	if covers(backupW, backupH, sr.width, sr.height) {
		layout.Cells = deriveFromBackup(backupCells, backupW, sr.width, sr.height)
		layout.DerivedFromBackup = true
	} else {
		layout.Cells = mainCells
	}
	return layout, nil
}

// segmentsComplete reports whether every batched segment came back at
// least at the given length; a short bridge read fails the stage's
// decode rather than panicking on a truncated slice.
func segmentsComplete(segments [][]byte, lens ...int) bool {
	if len(segments) < len(lens) {
		return false
	}
	for i, n := range lens {
		if len(segments[i]) < n {
			return false
		}
	}
	return true
}

func loadBehaviors(client *memory.Client, cache *AttributeCache, addr schema.Address, count int) ([]BehaviorID, error) {
	if addr == 0 {
		return make([]BehaviorID, count), nil
	}
	if cached, ok := cache.get(addr); ok {
		return cached, nil
	}
	raw, err := client.ReadRange(addr, count*schema.TilesetAttributeEntrySize)
	if err != nil {
		return nil, err
	}
	behaviors := decodeBehaviors(raw, count)
	cache.put(addr, behaviors)
	return behaviors, nil
}
