package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid marks a malformed snapshot: ragged rows, non-positive
// dimensions or contradictory cell attributes. Not recoverable here, the
// caller must re-scan.
var ErrInvalidGrid = errors.New("invalid grid")

// Grid is a rectangular, read-only snapshot of the board. Grids are rebuilt
// wholesale from each scan and never patched in place, so a Grid can be
// assumed internally consistent for the lifetime of one engine call.
type Grid struct {
	width, height int
	cells         []Cell
}

// NewGrid validates rows and builds a Grid. Cell coordinates are assigned
// from position in the input, overriding whatever the scanner put there.
func NewGrid(rows [][]Cell) (*Grid, error) {
	height := len(rows)
	if height == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidGrid)
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrInvalidGrid)
	}

	cells := make([]Cell, 0, width*height)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, y, len(row), width)
		}
		for x, c := range row {
			if c.Revealed && c.Flagged {
				return nil, fmt.Errorf("%w: cell (%d,%d) both revealed and flagged", ErrInvalidGrid, x, y)
			}
			if c.Revealed && !c.Mine && (c.Number < 0 || c.Number > 8) {
				return nil, fmt.Errorf("%w: cell (%d,%d) has number %d", ErrInvalidGrid, x, y, c.Number)
			}
			c.X, c.Y = x, y
			cells = append(cells, c)
		}
	}
	return &Grid{width: width, height: height, cells: cells}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// At returns the cell at (x,y). Coordinates must be in bounds.
func (g *Grid) At(x, y int) Cell { return g.cells[y*g.width+x] }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Cells returns every cell in row-major order.
func (g *Grid) Cells() []Cell { return g.cells }

func (g *Grid) CountRevealed() int {
	n := 0
	for _, c := range g.cells {
		if c.Revealed {
			n++
		}
	}
	return n
}

func (g *Grid) CountFlagged() int {
	n := 0
	for _, c := range g.cells {
		if c.Flagged {
			n++
		}
	}
	return n
}

func (g *Grid) CountHidden() int {
	n := 0
	for _, c := range g.cells {
		if c.Hidden() {
			n++
		}
	}
	return n
}

// HiddenCells returns the hidden cells in row-major order.
func (g *Grid) HiddenCells() []Cell {
	var out []Cell
	for _, c := range g.cells {
		if c.Hidden() {
			out = append(out, c)
		}
	}
	return out
}

// Neighbors returns the up-to-8 adjacent cells of (x,y), clipped to bounds,
// in row-major order of the 3x3 block. The ordering is part of the contract:
// pattern detection depends on it being stable.
func (g *Grid) Neighbors(x, y int) []Cell {
	out := make([]Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if g.inBounds(nx, ny) {
				out = append(out, g.At(nx, ny))
			}
		}
	}
	return out
}
