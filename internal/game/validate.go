package game

import (
	"fmt"
	"strings"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/gacha"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	nonNegative := func(name string, v *int) {
		if v != nil && *v < 0 {
			errs = append(errs, name+" must be >= 0")
		}
	}

	// gacha
	if cfg.Gacha.Cost != nil && *cfg.Gacha.Cost <= 0 {
		errs = append(errs, "gacha.cost must be >= 1")
	}
	nonNegative("gacha.ten_roll_cost", cfg.Gacha.TenRollCost)
	nonNegative("gacha.pity", cfg.Gacha.Pity)
	if cfg.Gacha.PityRarity != "" && catalog.Rarity(cfg.Gacha.PityRarity).Rank() == 0 {
		errs = append(errs, "gacha.pity_rarity must be one of: common, uncommon, rare, legendary")
	}
	if sp := cfg.Gacha.SoftPity; sp != nil {
		pity := 0
		if cfg.Gacha.Pity != nil {
			pity = *cfg.Gacha.Pity
		}
		ramp := gacha.SoftPity{Easing: gacha.Easing(sp.Easing)}
		if sp.StartAt != nil {
			ramp.StartAt = *sp.StartAt
		}
		if sp.Target != nil {
			ramp.TargetProb = *sp.Target
		}
		if err := ramp.Validate(pity); err != nil {
			errs = append(errs, "gacha.soft_pity needs pity >= 2, 0 <= start_at < pity-1, 0 < target < 1 and a known easing")
		}
	}
	if r := cfg.Gacha.Refund; r != nil {
		nonNegative("gacha.duplicate_refund.coins", r.Coins)
		nonNegative("gacha.duplicate_refund.healing", r.Healing)
		// a duplicate refund must never pay more than the roll cost
		if r.Coins != nil && cfg.Gacha.Cost != nil && *r.Coins >= *cfg.Gacha.Cost {
			errs = append(errs, "gacha.duplicate_refund.coins must be < gacha.cost")
		}
	}

	// rewards
	nonNegative("rewards.coin_base", cfg.Rewards.CoinBase)
	nonNegative("rewards.healing_per_power", cfg.Rewards.HealingPerPower)
	if cfg.Rewards.CoinPerPower != nil && *cfg.Rewards.CoinPerPower <= 0 {
		errs = append(errs, "rewards.coin_per_power must be >= 1")
	}

	// progression
	nonNegative("progression.starting_currency", cfg.Progression.StartingCurrency)
	nonNegative("progression.starting_healing", cfg.Progression.StartingHealing)
	nonNegative("progression.failsafe_healing", cfg.Progression.FailsafeHealing)
	if cfg.Progression.LevelEvery != nil && *cfg.Progression.LevelEvery <= 0 {
		errs = append(errs, "progression.level_every must be >= 1")
	}

	// healing
	if cfg.Healing != nil && cfg.Healing.PerUnit != nil && *cfg.Healing.PerUnit <= 0 {
		errs = append(errs, "healing.per_unit must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
