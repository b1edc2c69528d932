package game

import (
	"testing"

	"survivors/internal/game/geom"
)

func TestProjectileAdvance(t *testing.T) {
	p := &Projectile{
		Current:    geom.V(0, 0),
		Target:     geom.V(100, 0),
		BaseDamage: 1,
		BaseSpeed:  500,
		Size:       geom.V(8, 8),
		Scale:      1,
	}

	if p.Advance(0) {
		t.Fatal("Zero dt should not move the projectile")
	}
	if p.Advance(0.1) {
		t.Fatal("Should not arrive after 50 px")
	}
	if !p.Current.Equal(geom.V(50, 0)) {
		t.Errorf("Expected (50,0), got %v", p.Current)
	}
	if !p.Advance(0.2) {
		t.Error("Should arrive without overshooting")
	}
	if !p.Current.Equal(p.Target) || !p.Arrived() {
		t.Errorf("Expected to rest on the target, got %v", p.Current)
	}
}

// TestProjectileArrivesOnExactStep lands a diagonal shot whose remaining
// distance equals one step.
func TestProjectileArrivesOnExactStep(t *testing.T) {
	p := &Projectile{
		Current:   geom.V(1, 1),
		Target:    geom.V(31, 41),
		BaseSpeed: 500,
		Size:      geom.V(8, 8),
		Scale:     1,
	}
	if !p.Advance(0.1) {
		t.Fatal("A 50 px step over a 50 px gap should arrive")
	}
	if p.Current != p.Target {
		t.Errorf("Expected to rest exactly on %v, got %v", p.Target, p.Current)
	}

	still := &Projectile{Current: geom.V(5, 5), Target: geom.V(5, 5), Size: geom.V(8, 8), Scale: 1}
	if !still.Advance(0.05) {
		t.Error("A projectile on its target should count as arrived even with zero speed")
	}
}

func TestProjectileEffects(t *testing.T) {
	p := &Projectile{
		BaseDamage: 1,
		BaseSpeed:  100,
		Size:       geom.V(8, 8),
		Scale:      2,
		Effects: []Effect{
			{DamageFlat: Float(2), SpeedMult: Float(2)},
			{DamageMult: Float(3)},
		},
	}

	if got := p.Damage(); got != 9 {
		t.Errorf("Expected damage 9, got %g", got)
	}
	if got := p.EffectiveSpeed(); got != 200 {
		t.Errorf("Expected speed 200, got %g", got)
	}
	if b := p.Bounds(); b.W != 16 || b.H != 16 {
		t.Errorf("Expected a 16x16 box, got %gx%g", b.W, b.H)
	}
}

func TestProjectileSnapshot(t *testing.T) {
	p := &Projectile{ID: 7, Current: geom.V(10, 20), Target: geom.V(30, 40), Size: geom.V(8, 8), Scale: 1}
	s := p.ToSnapshot()
	if s.ID != 7 || s.X != 10 || s.Y != 20 || s.W != 8 || s.TargetX != 30 || s.TargetY != 40 {
		t.Errorf("Unexpected snapshot %+v", s)
	}
}
