package game

import (
	"math/rand"
	"testing"

	"survivors/internal/game/geom"
)

func TestSpawnerFill(t *testing.T) {
	s := &Spawner{
		MaxEnemies: 30,
		SafeArea:   200,
		Health:     2,
		Speed:      60,
		Field:      geom.V(1920, 1080),
		DropTable:  DefaultDropTable(),
	}
	player := geom.V(960, 540)

	var id uint64
	next := func() uint64 { id++; return id }

	enemies, n := s.Fill(nil, player, rand.New(rand.NewSource(3)), next)
	if n != 30 || len(enemies) != 30 {
		t.Fatalf("Expected 30 spawned, got %d (%d live)", n, len(enemies))
	}

	for i, e := range enemies {
		if e.ID != uint64(i+1) {
			t.Errorf("Expected sequential IDs, got %d at %d", e.ID, i)
		}
		dx, dy := e.Position.X-player.X, e.Position.Y-player.Y
		if (dx >= -200 && dx <= 200) || (dy >= -200 && dy <= 200) {
			t.Errorf("Enemy %d spawned inside the safe area at %v", e.ID, e.Position)
		}
		if e.Health != 2 || e.Speed != 60 {
			t.Errorf("Unexpected stats %v/%v", e.Health, e.Speed)
		}
	}

	// Already full: nothing to do
	if _, n := s.Fill(enemies, player, rand.New(rand.NewSource(3)), next); n != 0 {
		t.Errorf("Expected no spawns on a full field, got %d", n)
	}
}

func TestSpawnerGivesUpWhenNoRoom(t *testing.T) {
	s := &Spawner{MaxEnemies: 5, SafeArea: 5000, Field: geom.V(100, 100), DropTable: DefaultDropTable()}

	enemies, n := s.Fill(nil, geom.V(50, 50), rand.New(rand.NewSource(1)), func() uint64 { return 1 })
	if n != 0 || len(enemies) != 0 {
		t.Errorf("Expected no spawns, got %d", n)
	}
}
