// Package fog implements the persistent, per-map fog-of-war grid: the
// set of metatiles a client has ever observed through the minimap
// classifier, used to mask the emitted full map so undiscovered cells
// read as unknown.
package fog

import "github.com/fireredbridge/corebridge/collision"

// Cell is one fog-grid entry: either undiscovered, or the classified
// minimap code last observed there.
type Cell struct {
	Discovered bool
	Code       collision.MinimapCode
}

// Grid is one map's persistent fog-of-war state.
type Grid struct {
	Width, Height int
	Cells         []Cell
}

// NewGrid allocates an all-undiscovered grid of the given size.
func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height, Cells: make([]Cell, width*height)}
}

func (g *Grid) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0, false
	}
	return y*g.Width + x, true
}

// Rect is a half-open viewport rectangle in map-tile coordinates.
type Rect struct {
	X, Y, Width, Height int
}

// GetCode resolves the classifier's code for one cell, e.g. a lookup
// into the minimap-code grid produced by collision.Classify for the
// current frame.
type GetCode func(x, y int) (collision.MinimapCode, bool)

// Engine owns every map's fog grid, keyed by (map_group, map_num).
type Engine struct {
	grids map[[2]uint8]*Grid
}

// NewEngine returns an Engine with no grids yet created.
func NewEngine() *Engine {
	return &Engine{grids: make(map[[2]uint8]*Grid)}
}

// EnsureGrid returns the grid for (mapGroup, mapNum), creating a fresh
// one at (width, height) on first sight, and replacing it (reporting
// shapeMismatch=true) if the map's dimensions changed since last seen
// — the input controller discards this frame's discovery deltas when
// that happens.
func (e *Engine) EnsureGrid(mapGroup, mapNum uint8, width, height int) (*Grid, bool) {
	key := [2]uint8{mapGroup, mapNum}
	g, ok := e.grids[key]
	if !ok {
		g = NewGrid(width, height)
		e.grids[key] = g
		return g, false
	}
	if g.Width != width || g.Height != height {
		g = NewGrid(width, height)
		e.grids[key] = g
		return g, true
	}
	return g, false
}

// DiscoverRect marks every undiscovered cell within rect (clamped to
// the grid's bounds) with the classifier's current code, invoking
// onDiscover for each newly discovered cell.
func DiscoverRect(g *Grid, rect Rect, get GetCode, onDiscover func(x, y int)) {
	x0, y0 := rect.X, rect.Y
	x1, y1 := rect.X+rect.Width, rect.Y+rect.Height
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > g.Width {
		x1 = g.Width
	}
	if y1 > g.Height {
		y1 = g.Height
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			idx, ok := g.index(x, y)
			if !ok {
				continue
			}
			if g.Cells[idx].Discovered {
				continue
			}
			code, ok := get(x, y)
			if !ok {
				continue
			}
			g.Cells[idx] = Cell{Discovered: true, Code: code}
			if onDiscover != nil {
				onDiscover(x, y)
			}
		}
	}
}

// RefreshDiscovered iterates every already-discovered cell; if the
// classifier now returns a different code there (a scripted
// setmetatile, typically), it updates the cell and invokes onChange.
// Calling it twice in a row with an unchanged classifier reports no
// changes the second time.
func RefreshDiscovered(g *Grid, get GetCode, onChange func(x, y int, old, new collision.MinimapCode)) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			idx, _ := g.index(x, y)
			cell := g.Cells[idx]
			if !cell.Discovered {
				continue
			}
			code, ok := get(x, y)
			if !ok || code == cell.Code {
				continue
			}
			g.Cells[idx].Code = code
			if onChange != nil {
				onChange(x, y, cell.Code, code)
			}
		}
	}
}

// At returns the fog state of one cell, or the zero (undiscovered)
// Cell if out of bounds.
func (g *Grid) At(x, y int) Cell {
	idx, ok := g.index(x, y)
	if !ok {
		return Cell{}
	}
	return g.Cells[idx]
}
