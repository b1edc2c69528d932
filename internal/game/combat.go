package game

import (
	"math/rand"
)

// HitResult records one projectile landing on one enemy.
type HitResult struct {
	Weapon     *Weapon
	Projectile *Projectile
	Enemy      *Enemy
	Damage     float64
	Killed     bool
	Drop       *Drop // nil when the enemy survived or dropped nothing
}

// ApplyHits consumes the resolver output for this weapon's projectiles.
// Every owned projectile matched to a live enemy deals its folded damage,
// leaves a damage number and is removed. Enemies at or below zero health
// die, roll their drop and count as a kill for player. Entries for
// projectiles this weapon does not own are ignored, as are hits on enemies
// that already died this tick; such projectiles keep flying.
//
// Dead enemies are only flagged here. Removing them from the live set is
// the caller's job once every weapon has been applied.
func (w *Weapon) ApplyHits(hits map[*Projectile]*Enemy, player *Player, rng *rand.Rand) []HitResult {
	if len(hits) == 0 || len(w.Active) == 0 {
		return nil
	}

	var results []HitResult
	n := 0
	for _, p := range w.Active {
		enemy, ok := hits[p]
		if !ok || enemy == nil || !enemy.Alive() {
			w.Active[n] = p
			n++
			continue
		}

		dmg := p.Damage()
		enemy.Health -= dmg
		w.DamageText = append(w.DamageText, NewDamageAnimation(enemy.Position, dmg))

		res := HitResult{Weapon: w, Projectile: p, Enemy: enemy, Damage: dmg}
		if enemy.Health <= 0 {
			res.Killed = true
			res.Drop = enemy.Die(rng)
			player.Kills++
		}
		results = append(results, res)
	}
	clear(w.Active[n:])
	w.Active = w.Active[:n]
	return results
}
