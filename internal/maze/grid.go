// Package maze generates perfect mazes on integer-coded grids.
//
// A maze is carved with a randomized depth-first backtracker, the goal is
// placed on the cell farthest (in BFS hops) from the start, and encounter
// cells are scattered over the remaining passages. Every random choice is
// drawn from an injected *rand.Rand so a seed reproduces a maze exactly.
package maze

import (
	"errors"
	"fmt"
	"strings"
)

// CellCode is the integer tag stored in every grid position.
type CellCode int

const (
	Wall    CellCode = iota // impassable
	Passage                 // open floor
	Goal                    // exit of the current map
	Monster
	Witches
	Pirates
	Tribe
)

// MaxCellCode is the highest code a grid may hold.
const MaxCellCode = Tribe

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrUnreachableStart  = errors.New("start cell is not passable")
)

// Origin is the start cell of every map.
var Origin = Coord{Row: 0, Col: 0}

// EncounterKinds returns the cell codes that trigger narrative encounters.
func EncounterKinds() []CellCode {
	return []CellCode{Monster, Witches, Pirates, Tribe}
}

// IsEncounter reports whether the code tags an encounter cell.
func (c CellCode) IsEncounter() bool {
	return c >= Monster && c <= Tribe
}

// Valid reports whether the code belongs to the known code set.
func (c CellCode) Valid() bool {
	return c >= Wall && c <= MaxCellCode
}

func (c CellCode) String() string {
	switch c {
	case Wall:
		return "wall"
	case Passage:
		return "passage"
	case Goal:
		return "goal"
	case Monster:
		return "monster"
	case Witches:
		return "witches"
	case Pirates:
		return "pirates"
	case Tribe:
		return "tribe"
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Coord is a 0-indexed (row, col) grid position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Step returns the coordinate n cells away in the given direction.
func (c Coord) Step(d Direction, n int) Coord {
	dr, dc := d.Delta()
	return Coord{Row: c.Row + dr*n, Col: c.Col + dc*n}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is a rows x cols matrix of cell codes.
type Grid struct {
	Rows  int
	Cols  int
	Cells [][]CellCode
}

// NewGrid returns a grid filled with walls.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}

	cells := make([][]CellCode, rows)
	for r := range cells {
		cells[r] = make([]CellCode, cols)
	}
	return &Grid{Rows: rows, Cols: cols, Cells: cells}, nil
}

// FromCodes builds a grid from a rectangular integer matrix.
func FromCodes(codes [][]int) (*Grid, error) {
	if len(codes) == 0 || len(codes[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrInvalidDimensions)
	}

	g, err := NewGrid(len(codes), len(codes[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range codes {
		if len(row) != g.Cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidDimensions, r, len(row), g.Cols)
		}
		for c, v := range row {
			g.Cells[r][c] = CellCode(v)
		}
	}
	return g, nil
}

// Codes returns a copy of the grid as a plain integer matrix.
func (g *Grid) Codes() [][]int {
	out := make([][]int, g.Rows)
	for r := range g.Cells {
		out[r] = make([]int, g.Cols)
		for c, v := range g.Cells[r] {
			out[r][c] = int(v)
		}
	}
	return out
}

// InBounds checks if the coordinate is inside the grid
func (g *Grid) InBounds(p Coord) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// At returns the code at p. Out-of-bounds positions read as walls.
func (g *Grid) At(p Coord) CellCode {
	if !g.InBounds(p) {
		return Wall
	}
	return g.Cells[p.Row][p.Col]
}

// Set writes a code at p. Out-of-bounds writes are ignored.
func (g *Grid) Set(p Coord, code CellCode) {
	if g.InBounds(p) {
		g.Cells[p.Row][p.Col] = code
	}
}

// Open reports whether a player may stand on p.
func (g *Grid) Open(p Coord) bool {
	return g.At(p) != Wall
}

// Find returns the first cell, in row-major order, holding code.
func (g *Grid) Find(code CellCode) (Coord, bool) {
	for r, row := range g.Cells {
		for c, v := range row {
			if v == code {
				return Coord{Row: r, Col: c}, true
			}
		}
	}
	return Coord{}, false
}

// Count returns how many cells satisfy match.
func (g *Grid) Count(match func(CellCode) bool) int {
	n := 0
	for _, row := range g.Cells {
		for _, v := range row {
			if match(v) {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([][]CellCode, g.Rows)
	for r := range g.Cells {
		cells[r] = append([]CellCode(nil), g.Cells[r]...)
	}
	return &Grid{Rows: g.Rows, Cols: g.Cols, Cells: cells}
}

// Equal reports whether two grids hold identical codes.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.Rows != other.Rows || g.Cols != other.Cols {
		return false
	}
	for r := range g.Cells {
		for c := range g.Cells[r] {
			if g.Cells[r][c] != other.Cells[r][c] {
				return false
			}
		}
	}
	return true
}

// String renders the grid as digit rows, one line per row.
func (g *Grid) String() string {
	var b strings.Builder
	for _, row := range g.Cells {
		for _, v := range row {
			b.WriteByte(byte('0' + int(v)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
