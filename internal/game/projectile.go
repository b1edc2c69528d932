package game

import (
	"survivors/internal/game/geom"
)

// AmmoKind is the prototype a weapon builds projectiles from.
type AmmoKind struct {
	Name   string    `json:"name"`
	Damage float64   `json:"damage"`
	Speed  float64   `json:"speed"` // pixels per second
	Size   geom.Vec2 `json:"size"`
}

// NormalAmmo is the basic round: 1 damage at 5x base speed.
var NormalAmmo = AmmoKind{
	Name:   "normal",
	Damage: 1,
	Speed:  500,
	Size:   geom.V(8, 8),
}

// Projectile flies in a straight line from its spawn point toward a fixed
// target point. Moving enemies never change the destination.
type Projectile struct {
	ID      uint64
	Spawn   geom.Vec2
	Current geom.Vec2 // top-left corner
	Target  geom.Vec2

	BaseDamage float64
	BaseSpeed  float64
	Effects    []Effect
	Size       geom.Vec2
	Scale      float64

	arrived bool
}

// Damage is the base damage folded with every effect.
func (p *Projectile) Damage() float64 {
	return FoldDamage(p.BaseDamage, p.Effects)
}

// EffectiveSpeed is the base speed folded with every effect.
func (p *Projectile) EffectiveSpeed() float64 {
	return FoldSpeed(p.BaseSpeed, p.Effects)
}

// Bounds returns the scaled box at the current location.
func (p *Projectile) Bounds() geom.Rect {
	return geom.RectAt(p.Current, p.Size.Mul(p.Scale))
}

// Advance moves the projectile toward its target for dt seconds.
// Returns true once it is resting on the target.
func (p *Projectile) Advance(dt float64) bool {
	if dt <= 0 || p.arrived {
		return p.arrived
	}
	speed := p.EffectiveSpeed()
	if geom.Reached(p.Current, p.Target, speed, dt) {
		p.Current = p.Target
		p.arrived = true
	} else {
		p.Current = geom.MoveTowards(p.Current, p.Target, speed*dt)
	}
	return p.arrived
}

// Arrived reports whether the projectile reached its target.
func (p *Projectile) Arrived() bool { return p.arrived }

// ToSnapshot converts a projectile to its snapshot representation
func (p *Projectile) ToSnapshot() ProjectileSnapshot {
	b := p.Bounds()
	return ProjectileSnapshot{
		ID:      p.ID,
		X:       b.X,
		Y:       b.Y,
		W:       b.W,
		H:       b.H,
		TargetX: p.Target.X,
		TargetY: p.Target.Y,
	}
}
