package game

import (
	"strconv"

	"survivors/internal/game/geom"
)

// DamageTextDuration is how long a damage number stays on screen, in seconds.
const DamageTextDuration = 0.25

// DamageAnimation is a floating damage number shown where an enemy was hit.
type DamageAnimation struct {
	Position geom.Vec2
	Text     string
	Frame    float64 // seconds elapsed
	Duration float64
}

// NewDamageAnimation creates the popup for a hit of damage at pos.
func NewDamageAnimation(pos geom.Vec2, damage float64) *DamageAnimation {
	return &DamageAnimation{
		Position: pos,
		Text:     strconv.FormatFloat(damage, 'f', -1, 64),
		Duration: DamageTextDuration,
	}
}

// Advance moves the animation forward by dt and reports whether it is
// still showing.
func (a *DamageAnimation) Advance(dt float64) bool {
	a.Frame += dt
	return a.Frame <= a.Duration
}

// Remaining returns the seconds left before the animation expires.
func (a *DamageAnimation) Remaining() float64 {
	if r := a.Duration - a.Frame; r > 0 {
		return r
	}
	return 0
}
