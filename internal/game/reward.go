package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownReward is returned when applying a reward not in the catalog.
var ErrUnknownReward = errors.New("game: unknown reward")

// MinWeaponCooldown is the floor the attack speed reward cannot push below.
const MinWeaponCooldown = 0.05

// RewardKind identifies a level up reward.
type RewardKind string

const (
	RewardAttackSpeed RewardKind = "attack_speed"
	RewardMoveSpeed   RewardKind = "move_speed"
	RewardAmmoSize    RewardKind = "ammo_size"
	RewardDamage      RewardKind = "damage"
	RewardRange       RewardKind = "range"
	RewardMaxHealth   RewardKind = "max_health"
)

// Reward is one entry of the level up menu. Every formula scales with the
// player's current level.
type Reward struct {
	Kind        RewardKind `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description"`

	apply func(p *Player)
}

var rewardCatalog = []Reward{
	{
		Kind: RewardAttackSpeed, Name: "Attack Speed",
		Description: "Weapon cooldown x (1 - 0.05 x level)",
		apply: func(p *Player) {
			f := 1 - 0.05*float64(p.Level)
			for _, w := range p.Weapons {
				w.Cooldown = math.Max(w.Cooldown*f, MinWeaponCooldown)
				w.Remaining = math.Min(w.Remaining, w.Cooldown)
			}
		},
	},
	{
		Kind: RewardMoveSpeed, Name: "Move Speed",
		Description: "Move speed x (1 + 0.05 x level)",
		apply: func(p *Player) {
			p.Speed *= 1 + 0.05*float64(p.Level)
		},
	},
	{
		Kind: RewardAmmoSize, Name: "Ammo Size",
		Description: "Projectile size + 0.1 x level",
		apply: func(p *Player) {
			p.AmmoSize += 0.1 * float64(p.Level)
		},
	},
	{
		Kind: RewardDamage, Name: "Damage",
		Description: "Weapon damage x (1 + 0.1 x level)",
		apply: func(p *Player) {
			for _, w := range p.Weapons {
				w.DamageMult *= 1 + 0.1*float64(p.Level)
			}
		},
	},
	{
		Kind: RewardRange, Name: "Range",
		Description: "Weapon range + 10 x level",
		apply: func(p *Player) {
			for _, w := range p.Weapons {
				w.Range += 10 * float64(p.Level)
			}
		},
	},
	{
		Kind: RewardMaxHealth, Name: "Max Health",
		Description: "Max health + level, heals the same amount",
		apply: func(p *Player) {
			p.MaxHealth += float64(p.Level)
			p.Health += float64(p.Level)
		},
	},
}

// RewardCatalog returns every available reward.
func RewardCatalog() []Reward {
	return append([]Reward(nil), rewardCatalog...)
}

// ApplyReward applies the reward of kind to p.
func ApplyReward(p *Player, kind RewardKind) error {
	for _, r := range rewardCatalog {
		if r.Kind == kind {
			r.apply(p)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownReward, kind)
}
