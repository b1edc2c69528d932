package game

import (
	"math"

	"survivors/internal/game/geom"
	"survivors/internal/game/spatial"
)

// InputSnapshot is the per-tick control state fed into the engine.
type InputSnapshot struct {
	Left   bool      `json:"left"`
	Right  bool      `json:"right"`
	Up     bool      `json:"up"`
	Down   bool      `json:"down"`
	Click  bool      `json:"click"`
	Cursor geom.Vec2 `json:"cursor"`
}

// AutoPilot is a bot input source: it steers away from nearby enemies and
// otherwise walks toward the closest drop.
type AutoPilot struct {
	Field      geom.Vec2 // play field size
	FleeRadius float64   // enemies closer than this are avoided
	EdgeMargin float64   // distance from the border where the bot turns back
}

// NewAutoPilot creates a bot for a field of the given size.
func NewAutoPilot(field geom.Vec2) *AutoPilot {
	return &AutoPilot{
		Field:      field,
		FleeRadius: 160,
		EdgeMargin: 48,
	}
}

// Decide picks the next input. grid must be populated with indices into
// enemies, as CollisionSystem leaves it after UpdateEnemies.
func (a *AutoPilot) Decide(player *Player, grid *spatial.Grid, enemies []*Enemy, drops []*Drop) InputSnapshot {
	center := player.Center()

	var steer geom.Vec2
	for _, id := range grid.QueryRadius(center, a.FleeRadius) {
		if int(id) >= len(enemies) || !enemies[id].Alive() {
			continue
		}
		away := center.Sub(enemies[id].Center())
		d := away.Len()
		if d == 0 || d > a.FleeRadius {
			continue
		}
		// Closer enemies push harder
		steer = steer.Add(away.Mul((a.FleeRadius - d) / (d * a.FleeRadius)))
	}

	if steer.Len() == 0 {
		if d, ok := nearestDrop(center, drops); ok {
			steer = d.Bounds().Center().Sub(center)
		}
	}

	// Turn back from the borders
	if center.X < a.EdgeMargin {
		steer.X = math.Abs(steer.X) + 1
	} else if center.X > a.Field.X-a.EdgeMargin {
		steer.X = -math.Abs(steer.X) - 1
	}
	if center.Y < a.EdgeMargin {
		steer.Y = math.Abs(steer.Y) + 1
	} else if center.Y > a.Field.Y-a.EdgeMargin {
		steer.Y = -math.Abs(steer.Y) - 1
	}

	const deadZone = 1e-3
	in := InputSnapshot{
		Left:  steer.X < -deadZone,
		Right: steer.X > deadZone,
		Up:    steer.Y < -deadZone,
		Down:  steer.Y > deadZone,
	}
	if e, ok := nearestAlive(center, enemies); ok {
		in.Cursor = e.Center()
	}
	return in
}

func nearestDrop(from geom.Vec2, drops []*Drop) (*Drop, bool) {
	var best *Drop
	bestDist := math.Inf(1)
	for _, d := range drops {
		if dist := from.Distance(d.Bounds().Center()); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best, best != nil
}

func nearestAlive(from geom.Vec2, enemies []*Enemy) (*Enemy, bool) {
	var best *Enemy
	bestDist := math.Inf(1)
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		if dist := from.Distance(e.Center()); dist < bestDist {
			best, bestDist = e, dist
		}
	}
	return best, best != nil
}
