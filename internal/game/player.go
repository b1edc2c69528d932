package game

import (
	"survivors/internal/game/geom"
)

// Leveling defaults
const (
	StartingLevel          = 1
	StartingLevelThreshold = 5
	DefaultLevelScaling    = 1.3
)

// Player is the entity controlled by input. It owns its weapons.
type Player struct {
	Entity
	MaxHealth float64
	Weapons   []*Weapon

	Money               int
	Experience          int
	Level               int
	NextLevelExperience int
	Kills               int
	AmmoSize            float64 // scale applied to new projectiles
	LevelScaling        float64
	RecentlyLeveledUp   bool
}

// PlayerStats is the read-only view the overlay consumes each tick.
type PlayerStats struct {
	Money               int     `json:"money"`
	Experience          int     `json:"experience"`
	Level               int     `json:"level"`
	NextLevelExperience int     `json:"nextLevelExperience"`
	Kills               int     `json:"kills"`
	Health              float64 `json:"health"`
	MaxHealth           float64 `json:"maxHealth"`
}

// NewPlayer creates a level 1 player at pos.
func NewPlayer(pos geom.Vec2, health, speed float64) *Player {
	return &Player{
		Entity: Entity{
			Position: pos,
			Size:     PlayerSize,
			Speed:    speed,
			Health:   health,
			Sprite:   NewSprite(SpritePlayer, nil),
		},
		MaxHealth:           health,
		Level:               StartingLevel,
		NextLevelExperience: StartingLevelThreshold,
		AmmoSize:            1,
		LevelScaling:        DefaultLevelScaling,
	}
}

// AddExperience awards n experience and runs every level up it pays for.
// Each level consumes its threshold and scales the next one. Returns the
// number of levels gained.
func (p *Player) AddExperience(n int) int {
	p.Experience += n

	gained := 0
	for p.NextLevelExperience > 0 && p.Experience >= p.NextLevelExperience {
		p.Experience -= p.NextLevelExperience
		p.Level++
		p.NextLevelExperience = int(float64(p.NextLevelExperience) * p.LevelScaling)
		gained++
	}
	if gained > 0 {
		p.RecentlyLeveledUp = true
	}
	return gained
}

// ConsumeLevelUp reports and clears the level up flag.
func (p *Player) ConsumeLevelUp() bool {
	v := p.RecentlyLeveledUp
	p.RecentlyLeveledUp = false
	return v
}

// Alive reports whether the player has health left.
func (p *Player) Alive() bool { return p.Health > 0 }

// Stats returns the overlay view of the player.
func (p *Player) Stats() PlayerStats {
	return PlayerStats{
		Money:               p.Money,
		Experience:          p.Experience,
		Level:               p.Level,
		NextLevelExperience: p.NextLevelExperience,
		Kills:               p.Kills,
		Health:              p.Health,
		MaxHealth:           p.MaxHealth,
	}
}

// Move applies the input directions for dt seconds. Moving left faces the
// sprite forward, moving right mirrors it.
func (p *Player) Move(in InputSnapshot, dt float64) {
	step := p.Speed * dt
	if in.Left {
		p.Position.X -= step
		p.Sprite.Flipped = false
	}
	if in.Right {
		p.Position.X += step
		p.Sprite.Flipped = true
	}
	if in.Up {
		p.Position.Y -= step
	}
	if in.Down {
		p.Position.Y += step
	}
}
