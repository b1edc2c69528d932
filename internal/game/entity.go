package game

import (
	"math/rand"

	"survivors/internal/game/geom"
)

// Entity sizes in pixels
var (
	PlayerSize = geom.V(32, 32)
	EnemySize  = geom.V(32, 32)
	DropSize   = geom.V(12, 12)
)

// Entity is the shared state of everything that moves on the field.
// Position is the top-left corner; the bounding box is derived on demand.
type Entity struct {
	Position geom.Vec2
	Size     geom.Vec2
	Speed    float64 // pixels per second
	Health   float64
	Sprite   Sprite
}

// Bounds returns the current bounding box.
func (e *Entity) Bounds() geom.Rect {
	return geom.RectAt(e.Position, e.Size)
}

// Center returns the midpoint of the bounding box.
func (e *Entity) Center() geom.Vec2 {
	return e.Position.Add(e.Size.Div(2))
}

// Enemy chases the player and rolls its drop table once when it dies.
type Enemy struct {
	Entity
	ID        uint64
	DropTable *DropTable

	dead bool
}

// NewEnemy creates an enemy at pos. A nil table uses the default drops.
func NewEnemy(id uint64, pos geom.Vec2, health, speed float64, table *DropTable) *Enemy {
	if table == nil {
		table = DefaultDropTable()
	}
	return &Enemy{
		Entity: Entity{
			Position: pos,
			Size:     EnemySize,
			Speed:    speed,
			Health:   health,
			Sprite:   NewSprite(SpriteEnemy, nil),
		},
		ID:        id,
		DropTable: table,
	}
}

// Alive reports whether the enemy is still in play.
func (e *Enemy) Alive() bool { return !e.dead }

// Die marks the enemy dead and rolls its drop table. Only the first call
// rolls; later calls return nil. The drop is placed at the enemy center.
func (e *Enemy) Die(rng *rand.Rand) *Drop {
	if e.dead {
		return nil
	}
	e.dead = true

	kind := e.DropTable.Roll(rng)
	if kind == DropNothing {
		return nil
	}
	return NewDrop(kind, e.Center())
}

// seek moves the enemy toward target and faces it in the direction of travel.
func (e *Enemy) seek(target geom.Vec2, dt float64) {
	next := geom.MoveTowards(e.Position, target, e.Speed*dt)
	e.Sprite.Flipped = e.Position.X < next.X
	e.Position = next
}
