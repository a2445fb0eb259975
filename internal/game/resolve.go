// resolve.go
package game

import (
	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/gacha"
)

// Resolve turns a validated RawConfig into Rules. Unset fields keep
// DefaultRules values.
func Resolve(cfg RawConfig) Rules {
	r := DefaultRules()
	r.Version = cfg.Version

	pick(&r.GachaCost, cfg.Gacha.Cost)
	pick(&r.TenRollCost, cfg.Gacha.TenRollCost)
	pick(&r.Pity, cfg.Gacha.Pity)
	if cfg.Gacha.PityRarity != "" {
		r.PityRarity = catalog.Rarity(cfg.Gacha.PityRarity)
	}
	if sp := cfg.Gacha.SoftPity; sp != nil && sp.Target != nil {
		r.SoftPityTarget = *sp.Target
		pick(&r.SoftPityStart, sp.StartAt)
		r.SoftPityEasing = gacha.EaseLinear
		if sp.Easing != "" {
			r.SoftPityEasing = gacha.Easing(sp.Easing)
		}
	}
	if cfg.Gacha.Refund != nil {
		pick(&r.RefundCoins, cfg.Gacha.Refund.Coins)
		pick(&r.RefundHealing, cfg.Gacha.Refund.Healing)
	}

	pick(&r.CoinBase, cfg.Rewards.CoinBase)
	pick(&r.CoinPerPower, cfg.Rewards.CoinPerPower)
	pick(&r.HealingPerPower, cfg.Rewards.HealingPerPower)

	pick(&r.StartingCurrency, cfg.Progression.StartingCurrency)
	pick(&r.StartingHealing, cfg.Progression.StartingHealing)
	pick(&r.LevelEvery, cfg.Progression.LevelEvery)
	pick(&r.FailsafeHealing, cfg.Progression.FailsafeHealing)
	if cfg.Progression.InitialOpponent != "" {
		r.InitialOpponent = cfg.Progression.InitialOpponent
	}

	if cfg.Healing != nil {
		pick(&r.HealPerUnit, cfg.Healing.PerUnit)
	}
	return r
}

func pick(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
