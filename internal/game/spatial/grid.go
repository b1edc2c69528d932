// Package spatial provides the uniform hash grid used for broad-phase
// collision detection and the batched resolver built on top of it.
//
// Structures hold integer indices (not pointers) into the caller's entity
// slice and keep their backing storage across frames.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"survivors/internal/game/geom"
)

// ErrInvalidCellSize is returned when a grid is built with a non-positive cell.
var ErrInvalidCellSize = errors.New("spatial: cell size must be positive")

// Cell is a grid coordinate (column, row).
type Cell struct {
	X, Y int
}

// Grid buckets enemy indices into fixed-size square cells.
// It is rebuilt from scratch every frame: Clear, then Insert every enemy.
//
// Memory layout: cells are stored in row-major order (cells[row*cols+col]).
// The grid is padded by two cells on each axis so entities slightly outside
// the play field still land in a bucket of their own.
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1/cellSize for faster division
	cols, rows  int
	cells       [][]uint32
	scratch     []uint32 // reusable buffer for QueryRadius
}

// NewGrid creates a grid covering a fieldW x fieldH play field.
func NewGrid(fieldW, fieldH, cellSize float64) (*Grid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("new grid %gx%g: %w (got %g)", fieldW, fieldH, ErrInvalidCellSize, cellSize)
	}

	cols := int(fieldW/cellSize) + 2
	rows := int(fieldH/cellSize) + 2
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint32, cols*rows)
	for i := range cells {
		cells[i] = make([]uint32, 0, 4)
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 64),
	}, nil
}

// CellCoord returns the cell containing pos, clamped into the grid.
func (g *Grid) CellCoord(pos geom.Vec2) Cell {
	return Cell{
		X: clamp(int(pos.X*g.invCellSize), g.cols-1),
		Y: clamp(int(pos.Y*g.invCellSize), g.rows-1),
	}
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// Contains reports whether c lies inside the grid.
func (g *Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.cols && c.Y >= 0 && c.Y < g.rows
}

// Clear resets all buckets without deallocating underlying memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert appends id to the bucket of pos.
func (g *Grid) Insert(id uint32, pos geom.Vec2) {
	c := g.CellCoord(pos)
	idx := c.Y*g.cols + c.X
	g.cells[idx] = append(g.cells[idx], id)
}

// SearchRadius is the neighborhood radius, in cells, that still finds every
// overlap between boxes no wider or taller than extent. Boxes are bucketed
// by their top-left corner, so one cell suffices up to extent == cellSize.
func (g *Grid) SearchRadius(extent float64) int {
	r := int(math.Ceil(extent * g.invCellSize))
	if r < 1 {
		return 1
	}
	return r
}

// Neighborhood returns the (2r+1)² block of cells around the cell of pos.
// Cells outside the grid are dropped. Order is row-major.
func (g *Grid) Neighborhood(pos geom.Vec2, radius int) []Cell {
	return g.AppendNeighborhood(nil, g.CellCoord(pos), radius)
}

// AppendNeighborhood appends the in-grid cells around center to dst.
func (g *Grid) AppendNeighborhood(dst []Cell, center Cell, radius int) []Cell {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			c := Cell{X: center.X + dx, Y: center.Y + dy}
			if g.Contains(c) {
				dst = append(dst, c)
			}
		}
	}
	return dst
}

// Bucket returns the ids stored in c in insertion order.
// The slice is owned by the grid and is only valid until the next Clear.
func (g *Grid) Bucket(c Cell) []uint32 {
	if !g.Contains(c) {
		return nil
	}
	return g.cells[c.Y*g.cols+c.X]
}

// Gather appends the contents of every bucket in cells to dst.
func (g *Grid) Gather(cells []Cell, dst []uint32) []uint32 {
	for _, c := range cells {
		dst = append(dst, g.Bucket(c)...)
	}
	return dst
}

// QueryRadius returns all ids potentially within radius of center.
// Uses an internal scratch buffer to avoid allocation.
//
// IMPORTANT: The returned slice is reused on subsequent calls.
// The candidates may include entities outside the radius; the caller
// performs the precise distance check.
func (g *Grid) QueryRadius(center geom.Vec2, radius float64) []uint32 {
	g.scratch = g.scratch[:0]

	lo := g.CellCoord(geom.V(center.X-radius, center.Y-radius))
	hi := g.CellCoord(geom.V(center.X+radius, center.Y+radius))

	for row := lo.Y; row <= hi.Y; row++ {
		for col := lo.X; col <= hi.X; col++ {
			g.scratch = append(g.scratch, g.cells[row*g.cols+col]...)
		}
	}
	return g.scratch
}

// Stats returns grid statistics for debugging/profiling.
func (g *Grid) Stats() GridStats {
	var totalEntities, maxInCell, nonEmpty int
	for _, cell := range g.cells {
		count := len(cell)
		totalEntities += count
		if count > maxInCell {
			maxInCell = count
		}
		if count > 0 {
			nonEmpty++
		}
	}

	avgPerCell := 0.0
	if nonEmpty > 0 {
		avgPerCell = float64(totalEntities) / float64(nonEmpty)
	}

	return GridStats{
		TotalCells:     len(g.cells),
		NonEmptyCells:  nonEmpty,
		TotalEntities:  totalEntities,
		MaxInCell:      maxInCell,
		AvgPerNonEmpty: avgPerCell,
	}
}

// GridStats contains grid statistics for debugging.
type GridStats struct {
	TotalCells     int
	NonEmptyCells  int
	TotalEntities  int
	MaxInCell      int
	AvgPerNonEmpty float64
}

// Dimensions returns the grid dimensions.
func (g *Grid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}
