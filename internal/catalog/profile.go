// Package catalog holds the immutable fighter definitions the game is played with.
package catalog

import "math"

// Category says which side of a battle a profile belongs to.
type Category string

const (
	Playable Category = "playable"
	Opponent Category = "opponent"
)

// Rarity is the user-facing label for a profile's roll probability.
type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Legendary Rarity = "legendary"
)

// Rank orders rarities from 1 (common) to 4 (legendary); unknown is 0.
func (r Rarity) Rank() int {
	switch r {
	case Common:
		return 1
	case Uncommon:
		return 2
	case Rare:
		return 3
	case Legendary:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether r is as rare as min or rarer.
func (r Rarity) AtLeast(min Rarity) bool {
	return r.Rank() >= min.Rank() && r.Rank() > 0
}

// FighterProfile is one catalog entry. Values are normalized by NewFighterProfile
// and never change afterwards.
type FighterProfile struct {
	Name       string   `json:"name"`
	Subtitle   string   `json:"subtitle"`
	Category   Category `json:"category"`
	ImageRef   string   `json:"image_ref"`
	MaxHealth  int      `json:"max_health"`
	PowerLevel int      `json:"power_level"`
	CritRate   float64  `json:"crit_rate"`
	Rarity     Rarity   `json:"rarity"`
	RollWeight float64  `json:"roll_weight"`
}

// NewFighterProfile builds a profile, clamping out-of-range inputs instead of
// failing:
//   - maxHealth, powerLevel <= 0 become 0
//   - critRate < 0 becomes 0, > 1 becomes 1
//   - rollWeight <= 0 (or NaN) becomes 0
//   - an unknown category becomes Opponent, an unknown rarity becomes ""
//
// A clamped profile is still usable; callers that care must compare the result
// with their input.
func NewFighterProfile(name, subtitle string, category Category, imageRef string,
	maxHealth, powerLevel int, critRate float64, rarity Rarity, rollWeight float64) FighterProfile {
	p := FighterProfile{
		Name:     name,
		Subtitle: subtitle,
		ImageRef: imageRef,
	}

	switch category {
	case Playable, Opponent:
		p.Category = category
	default:
		p.Category = Opponent
	}

	if maxHealth > 0 {
		p.MaxHealth = maxHealth
	}
	if powerLevel > 0 {
		p.PowerLevel = powerLevel
	}

	switch {
	case math.IsNaN(critRate) || critRate < 0:
		p.CritRate = 0
	case critRate > 1:
		p.CritRate = 1
	default:
		p.CritRate = critRate
	}

	if rarity.Rank() > 0 {
		p.Rarity = rarity
	}

	if rollWeight > 0 && !math.IsInf(rollWeight, 0) {
		p.RollWeight = rollWeight
	}
	return p
}
