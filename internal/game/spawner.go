package game

import (
	"math/rand"

	"survivors/internal/game/geom"
)

// maxSpawnAttempts bounds the rejection sampling for one spawn position.
const maxSpawnAttempts = 64

// Spawner keeps the field stocked with enemies placed away from the player.
type Spawner struct {
	MaxEnemies int
	SafeArea   float64 // per-axis distance from the player where spawns are rejected
	Health     float64
	Speed      float64
	Field      geom.Vec2
	DropTable  *DropTable
}

// Fill appends enemies until count reaches MaxEnemies. It stops early when
// no position outside the safe area can be found. nextID issues enemy IDs.
func (s *Spawner) Fill(enemies []*Enemy, player geom.Vec2, rng *rand.Rand, nextID func() uint64) ([]*Enemy, int) {
	spawned := 0
	for len(enemies) < s.MaxEnemies {
		pos, ok := s.position(player, rng)
		if !ok {
			break
		}
		enemies = append(enemies, NewEnemy(nextID(), pos, s.Health, s.Speed, s.DropTable))
		spawned++
	}
	return enemies, spawned
}

// position samples integer field coordinates until one lies outside the
// safe area on both axes.
func (s *Spawner) position(player geom.Vec2, rng *rand.Rand) (geom.Vec2, bool) {
	for i := 0; i < maxSpawnAttempts; i++ {
		p := geom.V(
			float64(rng.Intn(int(s.Field.X)+1)),
			float64(rng.Intn(int(s.Field.Y)+1)),
		)
		outsideX := p.X < player.X-s.SafeArea || p.X > player.X+s.SafeArea
		outsideY := p.Y < player.Y-s.SafeArea || p.Y > player.Y+s.SafeArea
		if outsideX && outsideY {
			return p, true
		}
	}
	return geom.Vec2{}, false
}
