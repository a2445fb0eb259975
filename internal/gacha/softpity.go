package gacha

import "errors"

// Easing specifies how the chance ramps up as a counter approaches pity.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

var ErrSoftPityConfig = errors.New("invalid soft pity config")

// SoftPity ramps the chance of a guaranteed high-rarity roll before hard pity.
// Example: Pity=10, StartAt=6, TargetProb=0.5: rolls 7..9 since the last hit
// ramp from the base share up to 0.5; roll 10 is the hard guarantee.
type SoftPity struct {
	StartAt    int     // misses since the last hit before the ramp begins
	TargetProb float64 // chance at the last roll before hard pity, in (0,1)
	Easing     Easing
}

// Validate checks the ramp fits under a hard pity threshold. An empty easing
// becomes linear.
func (s *SoftPity) Validate(pity int) error {
	if pity <= 1 {
		return ErrSoftPityConfig
	}
	if s.TargetProb <= 0 || s.TargetProb >= 1 {
		return ErrSoftPityConfig
	}
	if s.StartAt < 0 {
		s.StartAt = 0
	}
	// ramp ends at pity-1 and needs room to climb
	if s.StartAt >= pity-1 {
		return ErrSoftPityConfig
	}
	switch s.Easing {
	case "":
		s.Easing = EaseLinear
	case EaseLinear, EaseOutQuad, EaseInOutCubic:
	default:
		return ErrSoftPityConfig
	}
	return nil
}

// Chance is the probability that the next roll is forced into the
// high-rarity pool, given the pool's natural share base.
// - hard pity due: 1
// - before StartAt or without a ramp: 0 (the roll is left to the weights)
// - otherwise: interpolated from base toward TargetProb
func (ps *PitySystem) Chance(base float64) float64 {
	if ps.Due() {
		return 1
	}
	s := ps.Soft
	if s == nil || ps.Count < s.StartAt {
		return 0
	}
	end := ps.Pity - 1
	length := float64(end - s.StartAt)
	if length <= 0 {
		return 0
	}
	t := float64(ps.Count-s.StartAt) / length
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	switch s.Easing {
	case EaseOutQuad:
		// f(t) = 1 - (1 - t)^2
		t = 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		if t < 0.5 {
			t = 4 * t * t * t
		} else {
			t = 1 - (-2*t+2)*(-2*t+2)*(-2*t+2)/2
		}
	}
	p := base + (s.TargetProb-base)*t
	if p < 0 {
		p = 0
	}
	// stays below 1 so only hard pity guarantees
	if p > 0.999999999999 {
		p = 0.999999999999
	}
	return p
}
