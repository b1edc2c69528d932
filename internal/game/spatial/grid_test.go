package spatial

import (
	"errors"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"survivors/internal/game/geom"
)

const (
	testFieldW = 1920.0
	testFieldH = 1080.0
	testCell   = 64.0
)

func newTestGrid(t testing.TB) *Grid {
	t.Helper()
	g, err := NewGrid(testFieldW, testFieldH, testCell)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestNewGridRejectsBadCellSize(t *testing.T) {
	for _, size := range []float64{0, -1, -64} {
		if _, err := NewGrid(testFieldW, testFieldH, size); !errors.Is(err, ErrInvalidCellSize) {
			t.Errorf("cell size %g: expected ErrInvalidCellSize, got %v", size, err)
		}
	}
}

func TestGridDimensionsArePadded(t *testing.T) {
	g := newTestGrid(t)
	cols, rows, cell := g.Dimensions()
	if cols != 32 || rows != 18 || cell != testCell {
		t.Errorf("Dimensions = %d x %d @ %g, want 32 x 18 @ 64", cols, rows, cell)
	}
}

func TestCellCoordClamps(t *testing.T) {
	g := newTestGrid(t)
	tests := []struct {
		name string
		pos  geom.Vec2
		want Cell
	}{
		{"origin", geom.V(0, 0), Cell{0, 0}},
		{"inside", geom.V(130, 70), Cell{2, 1}},
		{"negative", geom.V(-500, -1), Cell{0, 0}},
		{"far right", geom.V(99999, 10), Cell{31, 0}},
		{"far bottom", geom.V(10, 99999), Cell{0, 17}},
		{"padding cell", geom.V(1930, 1090), Cell{30, 17}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.CellCoord(tt.pos); got != tt.want {
				t.Errorf("CellCoord(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestNeighborhoodDropsOutOfGridCells(t *testing.T) {
	g := newTestGrid(t)

	if n := len(g.Neighborhood(geom.V(500, 500), 1)); n != 9 {
		t.Errorf("interior neighborhood has %d cells, want 9", n)
	}
	if n := len(g.Neighborhood(geom.V(0, 0), 1)); n != 4 {
		t.Errorf("corner neighborhood has %d cells, want 4", n)
	}
	if n := len(g.Neighborhood(geom.V(500, 0), 1)); n != 6 {
		t.Errorf("edge neighborhood has %d cells, want 6", n)
	}
	if n := len(g.Neighborhood(geom.V(500, 500), 2)); n != 25 {
		t.Errorf("radius 2 neighborhood has %d cells, want 25", n)
	}

	cells := g.Neighborhood(geom.V(500, 500), 1)
	if cells[0] != (Cell{6, 6}) || cells[8] != (Cell{8, 8}) {
		t.Errorf("neighborhood should be row-major, got %v", cells)
	}
}

func TestBucketKeepsInsertionOrder(t *testing.T) {
	g := newTestGrid(t)
	for _, id := range []uint32{7, 3, 9} {
		g.Insert(id, geom.V(10, 10))
	}
	if got := g.Bucket(Cell{0, 0}); !slices.Equal(got, []uint32{7, 3, 9}) {
		t.Errorf("Bucket = %v, want [7 3 9]", got)
	}
	if got := g.Bucket(Cell{-1, 0}); got != nil {
		t.Errorf("out-of-grid bucket should be nil, got %v", got)
	}
}

func TestClearKeepsNothing(t *testing.T) {
	g := newTestGrid(t)
	g.Insert(1, geom.V(10, 10))
	g.Insert(2, geom.V(1000, 600))
	g.Clear()

	stats := g.Stats()
	if stats.TotalEntities != 0 || stats.NonEmptyCells != 0 {
		t.Errorf("after Clear: %+v", stats)
	}
}

func TestGridStats(t *testing.T) {
	g := newTestGrid(t)
	g.Insert(0, geom.V(10, 10))
	g.Insert(1, geom.V(20, 20))
	g.Insert(2, geom.V(500, 500))

	stats := g.Stats()
	if stats.TotalEntities != 3 || stats.NonEmptyCells != 2 || stats.MaxInCell != 2 {
		t.Errorf("Stats = %+v", stats)
	}
	if stats.AvgPerNonEmpty != 1.5 {
		t.Errorf("AvgPerNonEmpty = %v, want 1.5", stats.AvgPerNonEmpty)
	}
}

func TestQueryRadius(t *testing.T) {
	g := newTestGrid(t)
	g.Insert(0, geom.V(100, 100))
	g.Insert(1, geom.V(1800, 1000))

	got := g.QueryRadius(geom.V(110, 110), 64)
	if !slices.Contains(got, 0) || slices.Contains(got, 1) {
		t.Errorf("QueryRadius = %v, want only 0", got)
	}
}

// Any enemy within one cell of the query point is in the 3x3 union, and any
// enemy more than two cells away on some axis is not.
func TestNeighborhoodCoverageProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g, _ := NewGrid(testFieldW, testFieldH, testCell)

		px := rapid.Float64Range(0, testFieldW-1).Draw(t, "px")
		py := rapid.Float64Range(0, testFieldH-1).Draw(t, "py")
		p := geom.V(px, py)

		n := rapid.IntRange(1, 40).Draw(t, "n")
		positions := make([]geom.Vec2, n)
		for i := range positions {
			positions[i] = geom.V(
				rapid.Float64Range(0, testFieldW-1).Draw(t, "ex"),
				rapid.Float64Range(0, testFieldH-1).Draw(t, "ey"),
			)
			g.Insert(uint32(i), positions[i])
		}

		found := g.Gather(g.Neighborhood(p, 1), nil)
		for i, e := range positions {
			dx, dy := abs(e.X-p.X), abs(e.Y-p.Y)
			present := slices.Contains(found, uint32(i))
			if dx < testCell && dy < testCell && !present {
				t.Fatalf("enemy %d at %v within one cell of %v is missing", i, e, p)
			}
			if (dx > 2*testCell || dy > 2*testCell) && present {
				t.Fatalf("enemy %d at %v is more than two cells from %v", i, e, p)
			}
		}
	})
}

func TestRebuildIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g, _ := NewGrid(testFieldW, testFieldH, testCell)
		n := rapid.IntRange(0, 60).Draw(t, "n")
		positions := make([]geom.Vec2, n)
		for i := range positions {
			positions[i] = geom.V(
				rapid.Float64Range(-100, testFieldW+100).Draw(t, "x"),
				rapid.Float64Range(-100, testFieldH+100).Draw(t, "y"),
			)
		}

		snapshot := func() [][]uint32 {
			g.Clear()
			for i, p := range positions {
				g.Insert(uint32(i), p)
			}
			out := make([][]uint32, len(g.cells))
			for i, c := range g.cells {
				out[i] = slices.Clone(c)
			}
			return out
		}

		first := snapshot()
		second := snapshot()
		for i := range first {
			if !slices.Equal(first[i], second[i]) {
				t.Fatalf("cell %d differs between rebuilds: %v vs %v", i, first[i], second[i])
			}
		}
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestSearchRadius(t *testing.T) {
	g := newTestGrid(t)
	tests := []struct {
		extent float64
		want   int
	}{
		{0, 1},
		{8, 1},
		{64, 1},
		{64.5, 2},
		{128, 2},
		{200, 4},
	}
	for _, tt := range tests {
		if got := g.SearchRadius(tt.extent); got != tt.want {
			t.Errorf("SearchRadius(%g) = %d, want %d", tt.extent, got, tt.want)
		}
	}
}
