package game

import (
	"errors"
	"fmt"
	"math/rand"

	"survivors/internal/game/geom"
)

// ErrInvalidDropTable is returned for tables with negative or zero total weight.
var ErrInvalidDropTable = errors.New("game: invalid drop table")

// DropKind is the outcome of a drop table roll.
type DropKind uint8

const (
	DropNothing DropKind = iota
	DropMoney
	DropMoneyPile
	DropExperience
	DropExperiencePile
)

// String returns the drop name
func (k DropKind) String() string {
	switch k {
	case DropMoney:
		return "money"
	case DropMoneyPile:
		return "money_pile"
	case DropExperience:
		return "experience"
	case DropExperiencePile:
		return "experience_pile"
	default:
		return "nothing"
	}
}

// MarshalText encodes the kind by name in JSON snapshots.
func (k DropKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k DropKind) sprite() SpriteKind {
	switch k {
	case DropMoney:
		return SpriteMoney
	case DropMoneyPile:
		return SpriteMoneyPile
	case DropExperience:
		return SpriteExperience
	case DropExperiencePile:
		return SpriteExperiencePile
	default:
		return SpriteNone
	}
}

// DropWeight is one row of a drop table.
type DropWeight struct {
	Kind   DropKind
	Weight int
}

// DropTable samples drop kinds with probability weight / total.
type DropTable struct {
	entries []DropWeight
	total   int
}

// NewDropTable builds a table from weighted entries.
func NewDropTable(entries ...DropWeight) (*DropTable, error) {
	t := &DropTable{entries: make([]DropWeight, 0, len(entries))}
	for _, e := range entries {
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: %s has weight %d", ErrInvalidDropTable, e.Kind, e.Weight)
		}
		if e.Weight == 0 {
			continue
		}
		t.entries = append(t.entries, e)
		t.total += e.Weight
	}
	if t.total == 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrInvalidDropTable)
	}
	return t, nil
}

var defaultDropTable = &DropTable{
	entries: []DropWeight{
		{DropNothing, 10},
		{DropMoney, 3},
		{DropMoneyPile, 1},
		{DropExperience, 6},
		{DropExperiencePile, 1},
	},
	total: 21,
}

// DefaultDropTable returns the table enemies use unless given another.
func DefaultDropTable() *DropTable { return defaultDropTable }

// Roll draws one kind by cumulative weight.
func (t *DropTable) Roll(rng *rand.Rand) DropKind {
	n := rng.Intn(t.total)
	for _, e := range t.entries {
		if n < e.Weight {
			return e.Kind
		}
		n -= e.Weight
	}
	return DropNothing
}

// Probability returns the chance of rolling kind.
func (t *DropTable) Probability(kind DropKind) float64 {
	w := 0
	for _, e := range t.entries {
		if e.Kind == kind {
			w += e.Weight
		}
	}
	return float64(w) / float64(t.total)
}

// Drop is loot lying on the field until the player touches it.
type Drop struct {
	Kind     DropKind
	Position geom.Vec2
	Size     geom.Vec2
	Sprite   Sprite
}

// NewDrop places a drop of kind with its top-left corner at pos.
func NewDrop(kind DropKind, pos geom.Vec2) *Drop {
	return &Drop{
		Kind:     kind,
		Position: pos,
		Size:     DropSize,
		Sprite:   NewSprite(kind.sprite(), nil),
	}
}

// Bounds returns the drop's bounding box.
func (d *Drop) Bounds() geom.Rect {
	return geom.RectAt(d.Position, d.Size)
}

// Pickup credits the player and returns the number of levels gained.
func (d *Drop) Pickup(p *Player) int {
	switch d.Kind {
	case DropMoney:
		p.Money++
	case DropMoneyPile:
		p.Money += 5
	case DropExperience:
		return p.AddExperience(1)
	case DropExperiencePile:
		return p.AddExperience(5)
	}
	return 0
}
