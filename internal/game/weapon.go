package game

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"survivors/internal/game/geom"
)

// ErrInvalidWeapon is returned for weapons with a non-positive cooldown or range.
var ErrInvalidWeapon = errors.New("game: invalid weapon")

// ErrUnknownWeapon is returned when equipping an ID missing from the catalog.
var ErrUnknownWeapon = errors.New("game: unknown weapon")

// MaxWeaponSlots caps how many weapons the player carries at once.
const MaxWeaponSlots = 4

// WeaponState is the cooldown state of a weapon.
type WeaponState uint8

const (
	CoolingDown WeaponState = iota
	Ready
)

// String returns the state name
func (s WeaponState) String() string {
	if s == Ready {
		return "ready"
	}
	return "cooling_down"
}

// WeaponDef defines the stats a weapon starts with.
type WeaponDef struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Cooldown   float64  `json:"cooldown"` // seconds between shots
	Range      float64  `json:"range"`    // pixels
	DamageMult float64  `json:"damageMult"`
	SpeedMult  float64  `json:"speedMult"`
	Ammo       AmmoKind `json:"ammo"`
}

// weaponCatalog holds every weapon a player can carry
var weaponCatalog = map[string]WeaponDef{
	"pistol": {
		ID: "pistol", Name: "Pistol",
		Cooldown: 0.5, Range: 500, DamageMult: 3, SpeedMult: 1,
		Ammo: NormalAmmo,
	},
	"rifle": {
		ID: "rifle", Name: "Rifle",
		Cooldown: 1.2, Range: 800, DamageMult: 6, SpeedMult: 2,
		Ammo: NormalAmmo,
	},
	"smg": {
		ID: "smg", Name: "SMG",
		Cooldown: 0.15, Range: 300, DamageMult: 1, SpeedMult: 1.5,
		Ammo: NormalAmmo,
	},
}

// DefaultWeaponID is the weapon a new player starts with.
const DefaultWeaponID = "pistol"

// GetWeapon returns a weapon definition by ID, defaulting to the pistol
func GetWeapon(id string) WeaponDef {
	if w, ok := weaponCatalog[id]; ok {
		return w
	}
	return weaponCatalog[DefaultWeaponID]
}

// LookupWeapon returns the catalog entry for id.
func LookupWeapon(id string) (WeaponDef, bool) {
	w, ok := weaponCatalog[id]
	return w, ok
}

// GetAllWeapons returns every weapon definition ordered by ID.
func GetAllWeapons() []WeaponDef {
	weapons := make([]WeaponDef, 0, len(weaponCatalog))
	for _, w := range weaponCatalog {
		weapons = append(weapons, w)
	}
	sort.Slice(weapons, func(i, j int) bool { return weapons[i].ID < weapons[j].ID })
	return weapons
}

// Weapon fires at the nearest enemy in range whenever its cooldown allows.
// It owns its live projectiles and the damage numbers they produced.
type Weapon struct {
	ID         string
	Name       string
	Cooldown   float64
	Remaining  float64
	Range      float64
	DamageMult float64
	SpeedMult  float64
	Ammo       AmmoKind
	Effects    []Effect

	Active     []*Projectile
	DamageText []*DamageAnimation

	state WeaponState
	fired uint64
}

// NewWeapon creates a weapon from def. The weapon starts cooling down.
func NewWeapon(def WeaponDef) (*Weapon, error) {
	if def.Cooldown <= 0 || math.IsNaN(def.Cooldown) {
		return nil, fmt.Errorf("%w: %s cooldown %g", ErrInvalidWeapon, def.ID, def.Cooldown)
	}
	if def.Range <= 0 || math.IsNaN(def.Range) {
		return nil, fmt.Errorf("%w: %s range %g", ErrInvalidWeapon, def.ID, def.Range)
	}
	return &Weapon{
		ID:         def.ID,
		Name:       def.Name,
		Cooldown:   def.Cooldown,
		Remaining:  def.Cooldown,
		Range:      def.Range,
		DamageMult: def.DamageMult,
		SpeedMult:  def.SpeedMult,
		Ammo:       def.Ammo,
		state:      CoolingDown,
	}, nil
}

// State returns the current cooldown state.
func (w *Weapon) State() WeaponState { return w.state }

// Tick advances the weapon by dt seconds: cooldown, then firing, then
// projectile movement. A weapon that was ready at the start of the tick
// fires at the nearest live enemy within range; with none in range it stays
// ready. A zero dt freezes everything. Returns the projectile fired, if any.
func (w *Weapon) Tick(dt float64, origin geom.Vec2, enemies []*Enemy, ammoScale float64) *Projectile {
	if dt <= 0 {
		return nil
	}

	var fired *Projectile
	if w.state == CoolingDown {
		w.Remaining = math.Max(w.Remaining-dt, 0)
		if w.Remaining == 0 {
			w.state = Ready
		}
	} else if target, ok := w.acquireTarget(origin, enemies); ok {
		fired = w.Fire(origin, target.Center(), ammoScale)
	}

	for _, p := range w.Active {
		p.Advance(dt)
	}
	return fired
}

// acquireTarget returns the live enemy whose center is nearest to origin,
// provided it is within range. The first enemy wins ties.
func (w *Weapon) acquireTarget(origin geom.Vec2, enemies []*Enemy) (*Enemy, bool) {
	var best *Enemy
	bestDist := math.Inf(1)
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		d := origin.Distance(e.Center())
		if d > w.Range {
			continue
		}
		if d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, best != nil
}

// Fire spawns a projectile at origin aimed along origin->aim, travelling
// exactly the weapon range, and restarts the full cooldown.
func (w *Weapon) Fire(origin, aim geom.Vec2, ammoScale float64) *Projectile {
	w.fired++
	p := &Projectile{
		ID:         w.fired,
		Spawn:      origin,
		Current:    origin,
		Target:     geom.LineSetDistance(origin, aim, w.Range),
		BaseDamage: w.Ammo.Damage * w.DamageMult,
		BaseSpeed:  w.Ammo.Speed * w.SpeedMult,
		Effects:    append([]Effect(nil), w.Effects...),
		Size:       w.Ammo.Size,
		Scale:      ammoScale,
	}
	w.Active = append(w.Active, p)

	w.Remaining = w.Cooldown
	w.state = CoolingDown
	return p
}

// DiscardArrived drops projectiles that reached their target without a hit.
// Returns the number discarded.
func (w *Weapon) DiscardArrived() int {
	n := 0
	for _, p := range w.Active {
		if !p.Arrived() {
			w.Active[n] = p
			n++
		}
	}
	missed := len(w.Active) - n
	clear(w.Active[n:])
	w.Active = w.Active[:n]
	return missed
}

// AdvanceAnimations ages every damage number and drops the expired ones.
func (w *Weapon) AdvanceAnimations(dt float64) {
	n := 0
	for _, a := range w.DamageText {
		if a.Advance(dt) {
			w.DamageText[n] = a
			n++
		}
	}
	clear(w.DamageText[n:])
	w.DamageText = w.DamageText[:n]
}

// Discard destroys every live projectile and damage number, as when the
// weapon leaves its slot. Returns the number of projectiles destroyed.
func (w *Weapon) Discard() int {
	n := len(w.Active)
	w.Active = nil
	w.DamageText = nil
	return n
}
