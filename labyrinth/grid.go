/*
Package labyrinth generates rectangular labyrinths by randomized depth-first carving.

A Grid covers the coordinates [0,W]×[0,L] inclusive. Every cell starts as a Wall;
carving walks in steps of two from the entrance, opening the target cell and the
intermediate cell between. Attempts that do not reach the configured free-cell
ratio are discarded and regenerated, up to a bounded number of attempts. Accepted
grids can then be scanned for secondary item placements.
*/
package labyrinth

import (
	"errors"
	"fmt"
	"strings"
)

const (
	minDimension = 5
	maxCells     = 1 << 24

	wallRune     = '#'
	openRune     = '.'
	entranceRune = 'E'
)

var (
	ErrOutOfRange           = errors.New("cell position out of range")
	ErrInvalidConfiguration = errors.New("invalid labyrinth configuration")
	ErrGenerationExhausted  = errors.New("labyrinth generation exhausted")
	ErrMalformedRows        = errors.New("malformed labyrinth rows")
)

// CellState is the carving state of one cell.
type CellState uint8

const (
	Wall CellState = iota // uncarved
	Open                  // carved, passable
)

func (s CellState) String() string {
	if s == Open {
		return "open"
	}
	return "wall"
}

// CellPosition is a grid coordinate. X runs along the width, Z along the length.
type CellPosition struct {
	X int `json:"x" bson:"x"`
	Z int `json:"z" bson:"z"`
}

func (p CellPosition) add(d CellPosition) CellPosition {
	return CellPosition{X: p.X + d.X, Z: p.Z + d.Z}
}

func (p CellPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Z)
}

// Grid holds the per-cell state of one labyrinth.
type Grid struct {
	width    int          // largest X index
	length   int          // largest Z index
	entrance CellPosition // carving root, always open
	cells    []CellState  // flat storage indexed by z*(width+1)+x
}

// NewGrid returns a grid with every cell set to Wall except the entrance.
func NewGrid(width, length int, entrance CellPosition) (*Grid, error) {
	if err := checkDimensions(width, length); err != nil {
		return nil, err
	}

	g := &Grid{
		width:    width,
		length:   length,
		entrance: entrance,
		cells:    make([]CellState, (width+1)*(length+1)),
	}
	if !g.InBound(entrance) {
		return nil, fmt.Errorf("%w: entrance %s outside grid", ErrInvalidConfiguration, entrance)
	}

	g.carve(entrance)
	return g, nil
}

// checkDimensions rejects grids below minDimension or above maxCells cells.
func checkDimensions(width, length int) error {
	if min(width, length) < minDimension {
		return fmt.Errorf("%w: dimensions %dx%d below %d", ErrInvalidConfiguration, width, length, minDimension)
	}
	if width >= maxCells || length >= maxCells || int64(width+1)*int64(length+1) > maxCells {
		return fmt.Errorf("%w: dimensions %dx%d exceed %d cells", ErrInvalidConfiguration, width, length, maxCells)
	}
	return nil
}

// Width returns the largest X index of the grid.
func (g *Grid) Width() int { return g.width }

// Length returns the largest Z index of the grid.
func (g *Grid) Length() int { return g.length }

// Entrance returns the entrance position.
func (g *Grid) Entrance() CellPosition { return g.entrance }

// Cells returns the total number of cells, perimeter included.
func (g *Grid) Cells() int { return len(g.cells) }

// InBound reports whether pos lies in [0,W]×[0,L].
func (g *Grid) InBound(pos CellPosition) bool {
	return pos.X >= 0 && pos.X <= g.width && pos.Z >= 0 && pos.Z <= g.length
}

// IsPerimeter reports whether pos lies on the outer boundary.
func (g *Grid) IsPerimeter(pos CellPosition) bool {
	return g.InBound(pos) && (pos.X == 0 || pos.X == g.width || pos.Z == 0 || pos.Z == g.length)
}

// At returns the state at pos, or ErrOutOfRange.
func (g *Grid) At(pos CellPosition) (CellState, error) {
	if !g.InBound(pos) {
		return Wall, fmt.Errorf("%w: %s", ErrOutOfRange, pos)
	}
	return g.cells[g.index(pos)], nil
}

// IsOpen reports whether pos is in range and carved.
func (g *Grid) IsOpen(pos CellPosition) bool {
	return g.InBound(pos) && g.cells[g.index(pos)] == Open
}

// Carvable reports whether the walker may open pos: strictly interior and still a wall.
func (g *Grid) Carvable(pos CellPosition) bool {
	if pos.X <= 0 || pos.X >= g.width || pos.Z <= 0 || pos.Z >= g.length {
		return false
	}
	return g.cells[g.index(pos)] == Wall
}

// OpenCount returns the number of carved cells.
func (g *Grid) OpenCount() int {
	count := 0
	for _, s := range g.cells {
		if s == Open {
			count++
		}
	}
	return count
}

// FreeCount returns the carved cells plus the sealed perimeter walls.
func (g *Grid) FreeCount() int {
	count := g.OpenCount()
	g.eachPerimeter(func(pos CellPosition) {
		if g.cells[g.index(pos)] == Wall {
			count++
		}
	})
	return count
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = append([]CellState(nil), g.cells...)
	return &c
}

// Rows renders the grid as one string per Z index, X increasing left to right.
func (g *Grid) Rows() []string {
	rows := make([]string, 0, g.length+1)
	var sb strings.Builder
	for z := 0; z <= g.length; z++ {
		sb.Reset()
		for x := 0; x <= g.width; x++ {
			if g.cells[g.index(CellPosition{X: x, Z: z})] == Open {
				sb.WriteByte(openRune)
			} else {
				sb.WriteByte(wallRune)
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// ParseRows rebuilds a grid from the output of Rows.
func ParseRows(rows []string, entrance CellPosition) (*Grid, error) {
	if len(rows) == 0 {
		return nil, ErrMalformedRows
	}

	g, err := NewGrid(len(rows[0])-1, len(rows)-1, entrance)
	if err != nil {
		return nil, err
	}
	g.cells = make([]CellState, len(g.cells))

	for z, row := range rows {
		if len(row) != g.width+1 {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedRows, z, len(row), g.width+1)
		}
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case openRune:
				g.carve(CellPosition{X: x, Z: z})
			case wallRune:
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrMalformedRows, row[x], x, z)
			}
		}
	}

	if !g.IsOpen(entrance) {
		return nil, fmt.Errorf("%w: entrance %s is not open", ErrMalformedRows, entrance)
	}
	return g, nil
}

// String provides a textual representation of the grid with the entrance marked.
func (g *Grid) String() string {
	var output strings.Builder
	for z, row := range g.Rows() {
		if z == g.entrance.Z {
			b := []byte(row)
			b[g.entrance.X] = entranceRune
			row = string(b)
		}
		output.WriteString(row)
		output.WriteByte('\n')
	}
	return output.String()
}

// carve opens pos. Cells are never closed again.
func (g *Grid) carve(pos CellPosition) {
	g.cells[g.index(pos)] = Open
}

func (g *Grid) index(pos CellPosition) int {
	return pos.Z*(g.width+1) + pos.X
}

func (g *Grid) eachPerimeter(fn func(CellPosition)) {
	for x := 0; x <= g.width; x++ {
		fn(CellPosition{X: x, Z: 0})
		fn(CellPosition{X: x, Z: g.length})
	}
	for z := 1; z < g.length; z++ {
		fn(CellPosition{X: 0, Z: z})
		fn(CellPosition{X: g.width, Z: z})
	}
}

// Bits packs the grid states, one bit per cell in index order, set when open.
func (g *Grid) Bits() []byte {
	bits := make([]byte, (len(g.cells)+7)/8)
	for i, s := range g.cells {
		if s == Open {
			bits[i/8] |= 1 << (i % 8)
		}
	}
	return bits
}

// GridFromBits rebuilds a grid from the output of Bits.
func GridFromBits(width, length int, entrance CellPosition, bits []byte) (*Grid, error) {
	g, err := NewGrid(width, length, entrance)
	if err != nil {
		return nil, err
	}
	if len(bits) != (len(g.cells)+7)/8 {
		return nil, fmt.Errorf("%w: %d bytes for %d cells", ErrMalformedRows, len(bits), len(g.cells))
	}

	for i := range g.cells {
		if bits[i/8]&(1<<(i%8)) != 0 {
			g.cells[i] = Open
		} else {
			g.cells[i] = Wall
		}
	}
	if !g.IsOpen(entrance) {
		return nil, fmt.Errorf("%w: entrance %s is not open", ErrMalformedRows, entrance)
	}
	return g, nil
}
