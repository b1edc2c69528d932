package game

// Effect is a stat modifier carried by a weapon and inherited by its
// projectiles. A nil field contributes nothing.
type Effect struct {
	DamageFlat *float64 `json:"damageFlat,omitempty"`
	DamageMult *float64 `json:"damageMult,omitempty"`
	SpeedFlat  *float64 `json:"speedFlat,omitempty"`
	SpeedMult  *float64 `json:"speedMult,omitempty"`
}

// Float returns a pointer to v, for building effects inline.
func Float(v float64) *float64 { return &v }

// FoldDamage applies the damage fields of effects to base.
func FoldDamage(base float64, effects []Effect) float64 {
	return fold(base, effects,
		func(e Effect) *float64 { return e.DamageFlat },
		func(e Effect) *float64 { return e.DamageMult })
}

// FoldSpeed applies the speed fields of effects to base.
func FoldSpeed(base float64, effects []Effect) float64 {
	return fold(base, effects,
		func(e Effect) *float64 { return e.SpeedFlat },
		func(e Effect) *float64 { return e.SpeedMult })
}

// fold adds every flat bonus first, then multiplies by every multiplier.
// The order is fixed: [+2, x3] on 1 is 9, never 5.
func fold(base float64, effects []Effect, flat, mult func(Effect) *float64) float64 {
	v := base
	for _, e := range effects {
		if f := flat(e); f != nil {
			v += *f
		}
	}
	for _, e := range effects {
		if m := mult(e); m != nil {
			v *= *m
		}
	}
	return v
}
