package progression

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/combat"
	"github.com/xtding233/gacha-arena/internal/gacha"
	"github.com/xtding233/gacha-arena/internal/game"
	"github.com/xtding233/gacha-arena/internal/token"
)

// Ledger applies the progression rules.
type Ledger struct {
	Rules   game.Rules
	Catalog *catalog.Catalog
	RNG     gacha.RandomSource // nil means gacha.DefaultRNG()
}

// NewState seeds a freshly registered player.
func (l Ledger) NewState() (State, error) {
	op, err := l.Catalog.LookupByName(l.Rules.InitialOpponent)
	if err != nil {
		return State{}, fmt.Errorf("initial opponent: %w", err)
	}
	return State{
		Currency:        l.Rules.StartingCurrency,
		HealingCurrency: l.Rules.StartingHealing,
		TotalLevel:      1,
		Opponent:        op,
	}, nil
}

// Reward for beating an opponent of the given power level:
// coins = CoinBase + CoinPerPower*power, healing = HealingPerPower*power.
func (l Ledger) Reward(powerLevel int) Reward {
	if powerLevel < 0 {
		powerLevel = 0
	}
	return Reward{
		Coins:   l.Rules.CoinBase + l.Rules.CoinPerPower*powerLevel,
		Healing: l.Rules.HealingPerPower * powerLevel,
	}
}

// Settlement is the result of a decisive encounter.
type Settlement struct {
	Outcome         combat.Outcome `json:"outcome"`
	State           State          `json:"state"`
	Fighter         Member         `json:"fighter"`
	Reward          Reward         `json:"reward"`
	LeveledUp       bool           `json:"leveled_up"`
	FailsafeGranted int            `json:"failsafe_granted"`
}

// SettleEncounter applies a decisive outcome. fighter must already carry its
// post-battle health; others are the rest of the player's collection (an
// entry with the fighter's ID is ignored).
func (l Ledger) SettleEncounter(outcome combat.Outcome, st State, fighter Member, others []Member) (Settlement, error) {
	switch outcome {
	case combat.PlayerWin:
		return l.settleWin(st, fighter)
	case combat.OpponentWin:
		return l.settleLoss(st, fighter, others), nil
	default:
		return Settlement{}, fmt.Errorf("%w: %v", ErrNotDecisive, outcome)
	}
}

func (l Ledger) settleWin(st State, fighter Member) (Settlement, error) {
	next, err := gacha.DrawWeighted(weighted(l.Catalog.Opponents()), l.RNG)
	if err != nil {
		return Settlement{}, fmt.Errorf("next opponent: %w", err)
	}

	reward := l.Reward(st.Opponent.PowerLevel)
	st = st.credit(reward)
	st.WinStreak++

	levelEvery := l.Rules.LevelEvery
	if levelEvery <= 0 {
		levelEvery = 1
	}
	st.BattlesSinceLevelUp++
	leveled := false
	if st.BattlesSinceLevelUp >= levelEvery {
		st.TotalLevel++
		st.BattlesSinceLevelUp = 0
		leveled = true
	}
	st.Opponent = next

	fighter.TotalWins++
	return Settlement{
		Outcome:   combat.PlayerWin,
		State:     st,
		Fighter:   fighter,
		Reward:    reward,
		LeveledUp: leveled,
	}, nil
}

func (l Ledger) settleLoss(st State, fighter Member, others []Member) Settlement {
	st.WinStreak = 0

	// a player with nothing able to fight and nothing to heal with would be
	// stuck forever
	granted := 0
	if st.HealingCurrency == 0 && !anyEligible(fighter, others) {
		granted = l.Rules.FailsafeHealing
		st.HealingCurrency += granted
	}
	return Settlement{
		Outcome:         combat.OpponentWin,
		State:           st,
		Fighter:         fighter,
		FailsafeGranted: granted,
	}
}

func anyEligible(fighter Member, others []Member) bool {
	if fighter.Eligible() {
		return true
	}
	for _, m := range others {
		if m.ID != fighter.ID && m.Eligible() {
			return true
		}
	}
	return false
}

// Heal spends one healing currency on a member.
func (l Ledger) Heal(st State, m Member) (State, Member, error) {
	if m.Health >= m.Profile.MaxHealth {
		return st, m, fmt.Errorf("%w: %s", ErrFullHealth, m.ChosenName)
	}
	if st.HealingCurrency < 1 {
		return st, m, &InsufficientFundsError{Currency: CurrencyHealing, Required: 1, Available: st.HealingCurrency}
	}
	st.HealingCurrency--
	m.Health += l.Rules.HealPerUnit
	if m.Health > m.Profile.MaxHealth {
		m.Health = m.Profile.MaxHealth
	}
	return st, m, nil
}

// Rename sets a member's chosen name. It can be done once.
func Rename(m Member, name string) (Member, error) {
	if m.Renamed {
		return m, fmt.Errorf("%w: %s", ErrAlreadyRenamed, m.ChosenName)
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return m, fmt.Errorf("%w: must be 1-%d characters", ErrInvalidName, maxNameLength)
	}
	m.ChosenName = name
	m.Renamed = true
	return m, nil
}

// Cost is the roll price under the current rules.
func (l Ledger) Cost() token.Token {
	return token.Token{Name: CurrencyCoins, PerDraw: l.Rules.GachaCost, PerTenDraw: l.Rules.TenRollCost}
}

func weighted(ps []catalog.FighterProfile) []gacha.Weighted[catalog.FighterProfile] {
	out := make([]gacha.Weighted[catalog.FighterProfile], len(ps))
	for i, p := range ps {
		out[i] = gacha.Weighted[catalog.FighterProfile]{Item: p, Weight: p.RollWeight}
	}
	return out
}
