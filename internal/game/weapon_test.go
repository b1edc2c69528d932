package game

import (
	"errors"
	"math/rand"
	"testing"

	"survivors/internal/game/geom"
)

func newPistol(t testing.TB) *Weapon {
	t.Helper()
	w, err := NewWeapon(GetWeapon(DefaultWeaponID))
	if err != nil {
		t.Fatalf("NewWeapon: %v", err)
	}
	return w
}

func readyPistol(t testing.TB) *Weapon {
	w := newPistol(t)
	w.state = Ready
	w.Remaining = 0
	return w
}

func TestNewWeaponValidation(t *testing.T) {
	bad := []WeaponDef{
		{ID: "zero-cooldown", Cooldown: 0, Range: 100},
		{ID: "negative-range", Cooldown: 1, Range: -5},
	}
	for _, def := range bad {
		if _, err := NewWeapon(def); !errors.Is(err, ErrInvalidWeapon) {
			t.Errorf("%s: expected ErrInvalidWeapon, got %v", def.ID, err)
		}
	}
}

func TestWeaponCatalog(t *testing.T) {
	if got := GetWeapon("does-not-exist"); got.ID != DefaultWeaponID {
		t.Errorf("Unknown weapon should fall back to %s, got %s", DefaultWeaponID, got.ID)
	}

	all := GetAllWeapons()
	ids := make([]string, len(all))
	for i, w := range all {
		ids[i] = w.ID
	}
	want := []string{"pistol", "rifle", "smg"}
	if len(ids) != len(want) {
		t.Fatalf("Expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, ids)
		}
	}
}

func TestWeaponStartsCoolingDown(t *testing.T) {
	w := newPistol(t)
	if w.State() != CoolingDown {
		t.Errorf("Expected %s, got %s", CoolingDown, w.State())
	}
	if w.Remaining != w.Cooldown {
		t.Errorf("Expected full cooldown %v, got %v", w.Cooldown, w.Remaining)
	}
}

func TestWeaponCooldownBecomesReadyWithoutFiring(t *testing.T) {
	w := newPistol(t)
	enemies := []*Enemy{NewEnemy(1, geom.V(150, 100), 10, 0, DefaultDropTable())}

	if p := w.Tick(0.25, geom.V(100, 100), enemies, 1); p != nil {
		t.Fatal("Should not fire while cooling down")
	}
	if w.State() != CoolingDown || w.Remaining != 0.25 {
		t.Fatalf("Expected cooling down with 0.25 left, got %s %v", w.State(), w.Remaining)
	}

	if p := w.Tick(0.25, geom.V(100, 100), enemies, 1); p != nil {
		t.Fatal("The tick that finishes the cooldown must not fire")
	}
	if w.State() != Ready {
		t.Fatalf("Expected ready, got %s", w.State())
	}

	if p := w.Tick(0.25, geom.V(100, 100), enemies, 1); p == nil {
		t.Fatal("Ready weapon with a target should fire")
	}
	if w.State() != CoolingDown || w.Remaining != w.Cooldown {
		t.Errorf("Firing should restart the full cooldown, got %s %v", w.State(), w.Remaining)
	}
}

func TestWeaponNoTargetStaysReady(t *testing.T) {
	w := readyPistol(t)
	far := []*Enemy{NewEnemy(1, geom.V(1000, 1000), 10, 0, DefaultDropTable())}

	if p := w.Tick(0.1, geom.V(0, 0), nil, 1); p != nil {
		t.Error("Should not fire without enemies")
	}
	if p := w.Tick(0.1, geom.V(0, 0), far, 1); p != nil {
		t.Error("Should not fire at an enemy out of range")
	}
	if w.State() != Ready {
		t.Errorf("Expected to stay ready, got %s", w.State())
	}
}

func TestWeaponZeroDeltaFreezes(t *testing.T) {
	w := readyPistol(t)
	enemies := []*Enemy{NewEnemy(1, geom.V(150, 100), 10, 0, DefaultDropTable())}

	if p := w.Tick(0, geom.V(100, 100), enemies, 1); p != nil {
		t.Error("Zero delta should not fire")
	}

	cooling := newPistol(t)
	cooling.Tick(0, geom.V(100, 100), enemies, 1)
	if cooling.Remaining != cooling.Cooldown {
		t.Errorf("Zero delta should not advance the cooldown, got %v", cooling.Remaining)
	}
}

func TestWeaponTargetsNearestLiveEnemy(t *testing.T) {
	w := readyPistol(t)
	dead := NewEnemy(1, geom.V(110, 100), 10, 0, DefaultDropTable())
	dead.Die(rand.New(rand.NewSource(1)))
	near := NewEnemy(2, geom.V(200, 100), 10, 0, DefaultDropTable())
	far := NewEnemy(3, geom.V(300, 100), 10, 0, DefaultDropTable())

	origin := geom.V(100, 116)
	p := w.Tick(0.01, origin, []*Enemy{far, dead, near}, 1)
	if p == nil {
		t.Fatal("Expected a shot")
	}
	want := geom.LineSetDistance(origin, near.Center(), w.Range)
	if p.Target != want {
		t.Errorf("Expected target %v, got %v", want, p.Target)
	}
}

func TestFireProjectileStats(t *testing.T) {
	w := readyPistol(t)
	w.Effects = []Effect{{DamageFlat: Float(1)}}

	p := w.Fire(geom.V(116, 116), geom.V(216, 116), 1.5)

	if p.Target != geom.V(616, 116) {
		t.Errorf("Expected target (616,116), got %v", p.Target)
	}
	if p.Damage() != 4 {
		t.Errorf("Expected damage 4, got %v", p.Damage())
	}
	if p.EffectiveSpeed() != 500 {
		t.Errorf("Expected speed 500, got %v", p.EffectiveSpeed())
	}
	if b := p.Bounds(); b.W != 12 || b.H != 12 {
		t.Errorf("Expected scaled 12x12 box, got %vx%v", b.W, b.H)
	}

	w.Effects[0] = Effect{DamageFlat: Float(100)}
	if p.Damage() != 4 {
		t.Error("Projectile effects must be copied at fire time")
	}
}

func TestDiscardArrived(t *testing.T) {
	w := readyPistol(t)
	p := w.Fire(geom.V(0, 0), geom.V(10, 0), 1)

	// 500 px/s over 1 s covers the full 500 px range
	w.Tick(1, geom.V(0, 0), nil, 1)
	if !p.Arrived() {
		t.Fatal("Projectile should have arrived")
	}
	if n := w.DiscardArrived(); n != 1 {
		t.Errorf("Expected 1 discarded, got %d", n)
	}
	if len(w.Active) != 0 {
		t.Errorf("Expected no live projectiles, got %d", len(w.Active))
	}
}

func TestDamageAnimation(t *testing.T) {
	a := NewDamageAnimation(geom.V(1, 2), 3)
	if a.Text != "3" {
		t.Errorf("Expected text \"3\", got %q", a.Text)
	}
	if b := NewDamageAnimation(geom.Vec2{}, 1.5); b.Text != "1.5" {
		t.Errorf("Expected text \"1.5\", got %q", b.Text)
	}

	if !a.Advance(0.1) {
		t.Error("Animation should still show at 0.1s")
	}
	if a.Advance(0.2) {
		t.Error("Animation should expire after its duration")
	}
	if a.Remaining() != 0 {
		t.Errorf("Expected 0 remaining, got %v", a.Remaining())
	}
}

func TestAdvanceAnimationsDropsExpired(t *testing.T) {
	w := newPistol(t)
	w.DamageText = []*DamageAnimation{
		NewDamageAnimation(geom.Vec2{}, 1),
		{Text: "old", Frame: 0.2, Duration: DamageTextDuration},
	}

	w.AdvanceAnimations(0.1)
	if len(w.DamageText) != 1 || w.DamageText[0].Text != "1" {
		t.Errorf("Expected only the fresh animation, got %+v", w.DamageText)
	}
}
