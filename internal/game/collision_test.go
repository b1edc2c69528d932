package game

import (
	"context"
	"math/rand"
	"testing"

	"survivors/internal/game/geom"
)

func placeProjectile(w *Weapon, at geom.Vec2) *Projectile {
	p := w.Fire(at, at.Add(geom.V(1, 0)), 1)
	p.Current = at
	return p
}

func TestCollisionSystemCheckAll(t *testing.T) {
	for _, workers := range []int{1, 4} {
		cs, err := NewCollisionSystem(1920, 1080, 64, workers)
		if err != nil {
			t.Fatalf("NewCollisionSystem: %v", err)
		}

		target := NewEnemy(1, geom.V(200, 100), 10, 0, DefaultDropTable())
		dead := NewEnemy(2, geom.V(500, 500), 10, 0, DefaultDropTable())
		dead.Die(rand.New(rand.NewSource(1)))
		cs.UpdateEnemies([]*Enemy{target, dead})

		w := readyPistol(t)
		hit := placeProjectile(w, geom.V(210, 110))
		placeProjectile(w, geom.V(800, 800))
		onCorpse := placeProjectile(w, geom.V(505, 505))

		hits := cs.CheckAll(context.Background(), []*Weapon{w})

		if len(hits) != 1 || hits[hit] != target {
			t.Errorf("workers=%d: expected only the first projectile to hit, got %v", workers, hits)
		}
		if _, ok := hits[onCorpse]; ok {
			t.Errorf("workers=%d: dead enemies must not be in the grid", workers)
		}

		stats := cs.Stats()
		if stats.EnemiesProcessed != 1 || stats.AmmoProcessed != 3 || stats.CollisionsFound != 1 || stats.CellsUsed != 1 {
			t.Errorf("workers=%d: unexpected stats %+v", workers, stats)
		}
		if len(cs.Enemies()) != 1 {
			t.Errorf("workers=%d: expected 1 indexed enemy, got %d", workers, len(cs.Enemies()))
		}
	}
}

func TestCollisionStatsString(t *testing.T) {
	s := CollisionStats{EnemiesProcessed: 3, AmmoProcessed: 2, CollisionsFound: 1, CellsUsed: 3}
	want := "Enemies: 3, Ammo: 2, Collisions: 1, Cells: 3"
	if s.String() != want {
		t.Errorf("Expected %q, got %q", want, s.String())
	}
}

func TestCollisionSystemGrownAmmo(t *testing.T) {
	cs, err := NewCollisionSystem(1920, 1080, 32, 1)
	if err != nil {
		t.Fatal(err)
	}
	target := NewEnemy(1, geom.V(300, 300), 10, 0, DefaultDropTable())
	cs.UpdateEnemies([]*Enemy{target})

	// Ammo size rewards scaled the 8 px round to 80 px, wider than a cell
	w := readyPistol(t)
	p := placeProjectile(w, geom.V(230, 230))
	p.Scale = 10

	hits := cs.CheckAll(context.Background(), []*Weapon{w})
	if hits[p] != target {
		t.Errorf("Expected the grown projectile to hit, got %v", hits)
	}
}

func BenchmarkCheckAll(b *testing.B) {
	cs, _ := NewCollisionSystem(1920, 1080, 64, 1)
	rng := rand.New(rand.NewSource(1))
	enemies := make([]*Enemy, 500)
	for i := range enemies {
		enemies[i] = NewEnemy(uint64(i), geom.V(rng.Float64()*1900, rng.Float64()*1060), 10, 0, DefaultDropTable())
	}
	w := readyPistol(b)
	for i := 0; i < 200; i++ {
		placeProjectile(w, geom.V(rng.Float64()*1900, rng.Float64()*1060))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cs.UpdateEnemies(enemies)
		cs.CheckAll(context.Background(), []*Weapon{w})
	}
}
