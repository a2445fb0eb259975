package progression

import (
	"fmt"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/gacha"
)

// RollResult is one drawn profile.
type RollResult struct {
	Profile       catalog.FighterProfile `json:"profile"`
	AlreadyOwned  bool                   `json:"already_owned"`
	Refund        Reward                 `json:"refund"`
	Member        *Member                `json:"member,omitempty"` // nil for duplicates
	PityTriggered bool                   `json:"pity_triggered"`
}

// GachaOutcome is a settled batch of rolls.
type GachaOutcome struct {
	Rolls       []RollResult `json:"rolls"`
	CostApplied int          `json:"cost_applied"`
	State       State        `json:"state"`
	NewMembers  []Member     `json:"-"`
}

// RollGacha charges for n rolls up front and draws them. Nothing changes when
// the player cannot pay. A profile the player already owns, or drew earlier
// in the same batch, becomes a refund instead of a second member.
func (l Ledger) RollGacha(st State, owned []Member, ownerID string, n int) (GachaOutcome, error) {
	if n < 1 || n > MaxRollsPerRequest {
		return GachaOutcome{}, fmt.Errorf("%w: %d (1-%d)", ErrInvalidRollCount, n, MaxRollsPerRequest)
	}
	cost := l.Cost().TokensForDraws(n)
	if st.Currency < cost {
		return GachaOutcome{}, &InsufficientFundsError{Currency: CurrencyCoins, Required: cost, Available: st.Currency}
	}

	pool := weighted(l.Catalog.Playables())
	var (
		highPool          []gacha.Weighted[catalog.FighterProfile]
		total, highWeight float64
	)
	for _, w := range pool {
		total += w.Weight
		if w.Item.Rarity.AtLeast(l.Rules.PityRarity) {
			highPool = append(highPool, w)
			highWeight += w.Weight
		}
	}
	share := 0.0
	if total > 0 {
		share = highWeight / total
	}

	have := make(map[string]bool, len(owned))
	for _, m := range owned {
		have[m.Profile.Name] = true
	}

	st.Currency -= cost
	out := GachaOutcome{CostApplied: cost, Rolls: make([]RollResult, 0, n)}
	pity := gacha.NewPitySystem(l.Rules.Pity, st.PityCount)
	pity.Soft = l.Rules.SoftPity()
	refund := Reward{Coins: l.Rules.RefundCoins, Healing: l.Rules.RefundHealing}

	for i := 0; i < n; i++ {
		from := pool
		forced := false
		if len(highPool) > 0 {
			var err error
			if forced, err = gacha.Draw(pity.Chance(share), l.RNG); err != nil {
				return GachaOutcome{}, fmt.Errorf("pity: %w", err)
			}
		}
		if forced {
			from = highPool
		}
		p, err := gacha.DrawWeighted(from, l.RNG)
		if err != nil {
			return GachaOutcome{}, fmt.Errorf("roll: %w", err)
		}
		pity.Record(p.Rarity.AtLeast(l.Rules.PityRarity))

		res := RollResult{Profile: p, PityTriggered: forced}
		if have[p.Name] {
			res.AlreadyOwned = true
			res.Refund = refund
			st = st.credit(refund)
		} else {
			m := NewMember(ownerID, p)
			have[p.Name] = true
			res.Member = &m
			out.NewMembers = append(out.NewMembers, m)
		}
		out.Rolls = append(out.Rolls, res)
	}

	st.PityCount = pity.Count
	out.State = st
	return out, nil
}
