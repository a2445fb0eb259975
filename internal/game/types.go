// types.go
package game

import (
	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/gacha"
)

// Raw config loaded from YAML. Pointer fields distinguish "unset" from zero so
// an override file only replaces what it mentions.
type RawConfig struct {
	Version     string            `yaml:"version"`
	Gacha       GachaConfig       `yaml:"gacha"`
	Rewards     RewardConfig      `yaml:"rewards"`
	Progression ProgressionConfig `yaml:"progression"`
	Healing     *HealingConfig    `yaml:"healing,omitempty"`
	Notes       string            `yaml:"notes,omitempty"`
}

type GachaConfig struct {
	Cost        *int            `yaml:"cost"`
	TenRollCost *int            `yaml:"ten_roll_cost,omitempty"` // 0 -> 10 * cost
	Refund      *RefundConfig   `yaml:"duplicate_refund,omitempty"`
	Pity        *int            `yaml:"pity,omitempty"` // 0 disables pity
	PityRarity  string          `yaml:"pity_rarity,omitempty"`
	SoftPity    *SoftPityConfig `yaml:"soft_pity,omitempty"`
}

// SoftPityConfig ramps the guarantee chance before hard pity.
type SoftPityConfig struct {
	StartAt *int     `yaml:"start_at"`
	Target  *float64 `yaml:"target"`
	Easing  string   `yaml:"easing,omitempty"` // linear, easeOutQuad, easeInOutCubic
}

type RefundConfig struct {
	Coins   *int `yaml:"coins"`
	Healing *int `yaml:"healing"`
}

// coins = coin_base + coin_per_power * power; healing = healing_per_power * power
type RewardConfig struct {
	CoinBase        *int `yaml:"coin_base"`
	CoinPerPower    *int `yaml:"coin_per_power"`
	HealingPerPower *int `yaml:"healing_per_power"`
}

type ProgressionConfig struct {
	StartingCurrency *int   `yaml:"starting_currency"`
	StartingHealing  *int   `yaml:"starting_healing"`
	LevelEvery       *int   `yaml:"level_every"`
	FailsafeHealing  *int   `yaml:"failsafe_healing"`
	InitialOpponent  string `yaml:"initial_opponent"`
}

type HealingConfig struct {
	PerUnit *int `yaml:"per_unit"`
}

// Rules are the normalized parameters the engine runs with.
type Rules struct {
	GachaCost     int
	TenRollCost   int
	RefundCoins   int
	RefundHealing int
	Pity          int
	PityRarity    catalog.Rarity

	// soft pity is off while SoftPityTarget is 0
	SoftPityStart  int
	SoftPityTarget float64
	SoftPityEasing gacha.Easing

	CoinBase        int
	CoinPerPower    int
	HealingPerPower int

	StartingCurrency int
	StartingHealing  int
	LevelEvery       int
	FailsafeHealing  int
	InitialOpponent  string

	HealPerUnit int

	Version string // effective config version for tracing
}

// SoftPity returns the configured ramp, or nil when it is off.
func (r Rules) SoftPity() *gacha.SoftPity {
	if r.SoftPityTarget <= 0 {
		return nil
	}
	return &gacha.SoftPity{StartAt: r.SoftPityStart, TargetProb: r.SoftPityTarget, Easing: r.SoftPityEasing}
}

// DefaultRules are used for any field no config file sets.
func DefaultRules() Rules {
	return Rules{
		GachaCost:        10,
		RefundCoins:      5,
		RefundHealing:    1,
		PityRarity:       catalog.Rare,
		CoinBase:         2,
		CoinPerPower:     2,
		HealingPerPower:  1,
		StartingCurrency: 100,
		LevelEvery:       10,
		FailsafeHealing:  3,
		InitialOpponent:  "Cheesy",
		HealPerUnit:      10,
	}
}
