package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"survivors/internal/game/geom"
)

func TestDefaultDropTableProbabilities(t *testing.T) {
	table := DefaultDropTable()
	want := map[DropKind]float64{
		DropNothing:        10.0 / 21,
		DropMoney:          3.0 / 21,
		DropMoneyPile:      1.0 / 21,
		DropExperience:     6.0 / 21,
		DropExperiencePile: 1.0 / 21,
	}

	sum := 0.0
	for kind, p := range want {
		got := table.Probability(kind)
		if math.Abs(got-p) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", kind, p, got)
		}
		sum += got
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("Expected probabilities to sum to 1, got %v", sum)
	}
}

func TestNewDropTableErrors(t *testing.T) {
	if _, err := NewDropTable(DropWeight{DropMoney, -1}); !errors.Is(err, ErrInvalidDropTable) {
		t.Errorf("Expected ErrInvalidDropTable for negative weight, got %v", err)
	}
	if _, err := NewDropTable(DropWeight{DropMoney, 0}); !errors.Is(err, ErrInvalidDropTable) {
		t.Errorf("Expected ErrInvalidDropTable for zero total, got %v", err)
	}
	if _, err := NewDropTable(); !errors.Is(err, ErrInvalidDropTable) {
		t.Errorf("Expected ErrInvalidDropTable for empty table, got %v", err)
	}
}

func TestDropTableRoll(t *testing.T) {
	table, err := NewDropTable(DropWeight{DropNothing, 0}, DropWeight{DropMoneyPile, 4})
	if err != nil {
		t.Fatalf("NewDropTable: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		if got := table.Roll(rng); got != DropMoneyPile {
			t.Fatalf("Expected only money piles, got %s", got)
		}
	}
}

func TestDropTableRollFrequencies(t *testing.T) {
	table := DefaultDropTable()
	rng := rand.New(rand.NewSource(42))

	const n = 21000
	counts := make(map[DropKind]int)
	for i := 0; i < n; i++ {
		counts[table.Roll(rng)]++
	}

	for kind, c := range counts {
		got := float64(c) / n
		if math.Abs(got-table.Probability(kind)) > 0.02 {
			t.Errorf("%s: frequency %v too far from %v", kind, got, table.Probability(kind))
		}
	}
}

func TestDropPickup(t *testing.T) {
	tests := []struct {
		kind  DropKind
		money int
		xp    int
		level int
	}{
		{DropNothing, 0, 0, 1},
		{DropMoney, 1, 0, 1},
		{DropMoneyPile, 5, 0, 1},
		{DropExperience, 0, 1, 1},
		{DropExperiencePile, 0, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := NewPlayer(geom.Vec2{}, 10, 100)
			NewDrop(tt.kind, geom.Vec2{}).Pickup(p)
			if p.Money != tt.money {
				t.Errorf("Expected money %d, got %d", tt.money, p.Money)
			}
			if p.Experience != tt.xp {
				t.Errorf("Expected xp %d, got %d", tt.xp, p.Experience)
			}
			if p.Level != tt.level {
				t.Errorf("Expected level %d, got %d", tt.level, p.Level)
			}
		})
	}
}

func TestEnemyDieRollsOnce(t *testing.T) {
	table, _ := NewDropTable(DropWeight{DropMoney, 1})
	e := NewEnemy(1, geom.V(100, 100), 1, 0, table)
	rng := rand.New(rand.NewSource(1))

	d := e.Die(rng)
	if d == nil || d.Kind != DropMoney {
		t.Fatalf("Expected a money drop, got %+v", d)
	}
	if d.Position != e.Center() {
		t.Errorf("Expected drop at enemy center %v, got %v", e.Center(), d.Position)
	}
	if e.Alive() {
		t.Error("Enemy should be dead")
	}
	if again := e.Die(rng); again != nil {
		t.Error("Second Die should not roll again")
	}
}
