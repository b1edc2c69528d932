package game

import (
	"context"
	"fmt"
	"log"

	"survivors/internal/game/geom"
	"survivors/internal/game/spatial"
)

// CollisionStats describes the last frame of collision work.
type CollisionStats struct {
	EnemiesProcessed int `json:"enemiesProcessed"`
	AmmoProcessed    int `json:"ammoProcessed"`
	CollisionsFound  int `json:"collisionsFound"`
	CellsUsed        int `json:"cellsUsed"`
}

// String formats the stats as a one-line debug overlay.
func (s CollisionStats) String() string {
	return fmt.Sprintf("Enemies: %d, Ammo: %d, Collisions: %d, Cells: %d",
		s.EnemiesProcessed, s.AmmoProcessed, s.CollisionsFound, s.CellsUsed)
}

// CollisionSystem rebuilds the enemy grid each frame and batches the live
// projectiles of every weapon through the resolver.
type CollisionSystem struct {
	resolver *spatial.Resolver
	workers  int

	enemies    []*Enemy
	enemyBoxes []geom.Rect
	ammo       []*Projectile
	ammoBoxes  []geom.Rect

	stats CollisionStats
}

// NewCollisionSystem creates a system for a fieldW x fieldH field.
// workers > 1 resolves occupied cells concurrently.
func NewCollisionSystem(fieldW, fieldH, cellSize float64, workers int) (*CollisionSystem, error) {
	grid, err := spatial.NewGrid(fieldW, fieldH, cellSize)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	return &CollisionSystem{
		resolver: spatial.NewResolver(grid),
		workers:  workers,
	}, nil
}

// Grid exposes the enemy grid populated by the last UpdateEnemies.
func (c *CollisionSystem) Grid() *spatial.Grid { return c.resolver.Grid() }

// Enemies returns the enemies indexed by the grid, in insertion order.
func (c *CollisionSystem) Enemies() []*Enemy { return c.enemies }

// UpdateEnemies rebuilds the grid from scratch with the live enemies.
func (c *CollisionSystem) UpdateEnemies(enemies []*Enemy) {
	c.enemies = c.enemies[:0]
	c.enemyBoxes = c.enemyBoxes[:0]
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		c.enemies = append(c.enemies, e)
		c.enemyBoxes = append(c.enemyBoxes, e.Bounds())
	}
	c.resolver.Populate(c.enemyBoxes)

	c.stats.EnemiesProcessed = len(c.enemies)
	c.stats.CellsUsed = c.resolver.Grid().Stats().NonEmptyCells
}

// CheckAll maps every live projectile of weapons to the enemy it hit this
// frame. UpdateEnemies must have been called first.
func (c *CollisionSystem) CheckAll(ctx context.Context, weapons []*Weapon) map[*Projectile]*Enemy {
	c.ammo = c.ammo[:0]
	c.ammoBoxes = c.ammoBoxes[:0]
	for _, w := range weapons {
		for _, p := range w.Active {
			c.ammo = append(c.ammo, p)
			c.ammoBoxes = append(c.ammoBoxes, p.Bounds())
		}
	}

	var (
		hits map[int]uint32
		err  error
	)
	if c.workers > 1 {
		hits, err = c.resolver.ResolveParallel(ctx, c.ammoBoxes, c.enemyBoxes, c.workers)
		if err != nil {
			log.Printf("⚠️ Parallel collision resolve aborted: %v", err)
			hits = nil
		}
	} else {
		hits = c.resolver.Resolve(c.ammoBoxes, c.enemyBoxes)
	}

	out := make(map[*Projectile]*Enemy, len(hits))
	for pi, ei := range hits {
		out[c.ammo[pi]] = c.enemies[ei]
	}

	c.stats.AmmoProcessed = len(c.ammo)
	c.stats.CollisionsFound = len(out)
	return out
}

// Stats returns the statistics of the last frame.
func (c *CollisionSystem) Stats() CollisionStats { return c.stats }
