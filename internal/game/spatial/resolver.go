package spatial

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"survivors/internal/game/geom"
)

// Hit pairs a projectile index with the enemy index it struck.
type Hit struct {
	Projectile int
	Enemy      uint32
}

// ResolveStats describes the most recent Resolve call.
type ResolveStats struct {
	Projectiles int // projectiles submitted
	Cells       int // distinct cells occupied by projectiles
	Candidates  int // projectile/enemy pairs that reached the box test
	Hits        int
	Radius      int // neighborhood radius in cells
}

type cellGroup struct {
	cell        Cell
	projectiles []int
}

// cellScratch holds the per-worker buffers used while checking one cell.
type cellScratch struct {
	cells      []Cell
	candidates []uint32
}

// Resolver batches projectiles by cell and tests each batch against the
// enemies bucketed in the surrounding block of the grid. The block is 3x3
// while every box fits in a cell and widens when a box outgrows it.
//
// The grid must hold indices into the enemy slice passed to Resolve,
// normally via Populate. A Resolver is not safe for concurrent use.
type Resolver struct {
	grid        *Grid
	enemyExtent float64 // largest enemy side seen by Populate
	index   map[Cell]int
	groups  []cellGroup
	scratch cellScratch
	hits    []Hit
	stats   ResolveStats
}

// NewResolver creates a resolver reading from grid.
func NewResolver(grid *Grid) *Resolver {
	return &Resolver{
		grid:  grid,
		index: make(map[Cell]int, 64),
	}
}

// Grid returns the grid the resolver reads from.
func (r *Resolver) Grid() *Grid { return r.grid }

// Populate rebuilds the grid from enemy boxes, bucketing each by its
// top-left corner under its slice index.
func (r *Resolver) Populate(enemies []geom.Rect) {
	r.grid.Clear()
	r.enemyExtent = 0
	for i, e := range enemies {
		r.grid.Insert(uint32(i), e.Pos())
		r.enemyExtent = math.Max(r.enemyExtent, math.Max(e.W, e.H))
	}
}

// Resolve maps each projectile index to the single enemy it overlaps this
// frame. Projectiles that hit nothing are absent. Among several overlapping
// enemies the first in grid order wins: neighborhood cells row-major, then
// bucket insertion order. An enemy may be hit by any number of projectiles.
func (r *Resolver) Resolve(projectiles, enemies []geom.Rect) map[int]uint32 {
	radius := r.group(projectiles)

	r.hits = r.hits[:0]
	candidates := 0
	for i := range r.groups {
		var tested int
		r.hits, tested = r.scratch.check(r.grid, &r.groups[i], radius, projectiles, enemies, r.hits)
		candidates += tested
	}

	r.stats = ResolveStats{
		Projectiles: len(projectiles),
		Cells:       len(r.groups),
		Candidates:  candidates,
		Hits:        len(r.hits),
		Radius:      radius,
	}
	return toMap(r.hits)
}

// ResolveParallel produces the same mapping as Resolve, spreading occupied
// cells across at most workers goroutines. Each projectile belongs to one
// cell, so workers never contend for a result. It returns ctx.Err() when the
// context is cancelled before every cell has been checked.
func (r *Resolver) ResolveParallel(ctx context.Context, projectiles, enemies []geom.Rect, workers int) (map[int]uint32, error) {
	if workers < 1 {
		workers = 1
	}
	radius := r.group(projectiles)

	results := make([][]Hit, len(r.groups))
	tested := make([]int, len(r.groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range r.groups {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var s cellScratch
			results[i], tested[i] = s.check(r.grid, &r.groups[i], radius, projectiles, enemies, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.hits = r.hits[:0]
	candidates := 0
	for i := range results {
		r.hits = append(r.hits, results[i]...)
		candidates += tested[i]
	}
	r.stats = ResolveStats{
		Projectiles: len(projectiles),
		Cells:       len(r.groups),
		Candidates:  candidates,
		Hits:        len(r.hits),
		Radius:      radius,
	}
	return toMap(r.hits), nil
}

// Stats returns the statistics of the last resolve.
func (r *Resolver) Stats() ResolveStats { return r.stats }

// group buckets projectile indices by the cell of their top-left corner,
// keeping cells in first-seen order. It returns the search radius needed for
// the largest projectile or enemy box.
func (r *Resolver) group(projectiles []geom.Rect) int {
	clear(r.index)
	r.groups = r.groups[:0]

	extent := r.enemyExtent
	for i, p := range projectiles {
		extent = math.Max(extent, math.Max(p.W, p.H))
		c := r.grid.CellCoord(p.Pos())
		gi, ok := r.index[c]
		if !ok {
			gi = len(r.groups)
			r.index[c] = gi
			if gi < cap(r.groups) {
				r.groups = r.groups[:gi+1]
				r.groups[gi].cell = c
				r.groups[gi].projectiles = r.groups[gi].projectiles[:0]
			} else {
				r.groups = append(r.groups, cellGroup{cell: c})
			}
		}
		r.groups[gi].projectiles = append(r.groups[gi].projectiles, i)
	}
	return r.grid.SearchRadius(extent)
}

// check tests every projectile of one cell group against the candidates of
// its neighborhood and appends the matches to hits.
func (s *cellScratch) check(grid *Grid, group *cellGroup, radius int, projectiles, enemies []geom.Rect, hits []Hit) ([]Hit, int) {
	s.cells = grid.AppendNeighborhood(s.cells[:0], group.cell, radius)
	s.candidates = grid.Gather(s.cells, s.candidates[:0])
	if len(s.candidates) == 0 {
		return hits, 0
	}

	tested := 0
	for _, pi := range group.projectiles {
		p := projectiles[pi]
		for _, ei := range s.candidates {
			if int(ei) >= len(enemies) {
				continue // stale id from an older population
			}
			e := enemies[ei]
			tested++

			// Quick bounds rejection first
			if p.Right() < e.Left() || p.Left() > e.Right() ||
				p.Bottom() < e.Top() || p.Top() > e.Bottom() {
				continue
			}
			if p.Overlaps(e) {
				hits = append(hits, Hit{Projectile: pi, Enemy: ei})
				break // each projectile hits at most one enemy
			}
		}
	}
	return hits, tested
}

func toMap(hits []Hit) map[int]uint32 {
	out := make(map[int]uint32, len(hits))
	for _, h := range hits {
		out[h.Projectile] = h.Enemy
	}
	return out
}
