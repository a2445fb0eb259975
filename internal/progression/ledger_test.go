package progression

import (
	"errors"
	"testing"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/combat"
	"github.com/xtding233/gacha-arena/internal/gacha"
	"github.com/xtding233/gacha-arena/internal/game"
)

func testCatalog(t *testing.T, playables ...catalog.FighterProfile) *catalog.Catalog {
	t.Helper()
	profiles := append([]catalog.FighterProfile{
		catalog.NewFighterProfile("Cheesy", "", catalog.Opponent, "", 20, 2, 0, catalog.Common, 1),
		catalog.NewFighterProfile("Big Dog", "", catalog.Opponent, "", 60, 4, 0.1, catalog.Rare, 1),
	}, playables...)
	c, err := catalog.New(profiles)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func newLedger(t *testing.T, playables ...catalog.FighterProfile) Ledger {
	t.Helper()
	if len(playables) == 0 {
		playables = []catalog.FighterProfile{
			catalog.NewFighterProfile("Tabby", "", catalog.Playable, "", 50, 5, 0.1, catalog.Common, 1),
		}
	}
	return Ledger{Rules: game.DefaultRules(), Catalog: testCatalog(t, playables...), RNG: gacha.NewSeededRNG(3)}
}

func TestNewState(t *testing.T) {
	l := newLedger(t)
	st, err := l.NewState()
	if err != nil {
		t.Fatal(err)
	}
	if st.Currency != 100 || st.HealingCurrency != 0 || st.TotalLevel != 1 {
		t.Fatalf("unexpected state %+v", st)
	}
	if st.Opponent.Name != "Cheesy" {
		t.Fatalf("opponent = %q, want Cheesy", st.Opponent.Name)
	}

	l.Rules.InitialOpponent = "Nobody"
	if _, err := l.NewState(); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReward(t *testing.T) {
	l := newLedger(t)
	if got := l.Reward(4); got != (Reward{Coins: 10, Healing: 4}) {
		t.Fatalf("reward(4) = %+v", got)
	}
	if got := l.Reward(0); got != (Reward{Coins: 2}) {
		t.Fatalf("reward(0) = %+v", got)
	}
}

func TestSettleWin(t *testing.T) {
	l := newLedger(t)
	st, _ := l.NewState()
	st.Opponent, _ = l.Catalog.LookupByName("Big Dog")
	fighter := NewMember("p1", l.Catalog.Playables()[0])
	fighter.Health = 12

	s, err := l.SettleEncounter(combat.PlayerWin, st, fighter, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.State.Currency != 110 || s.State.HealingCurrency != 4 {
		t.Fatalf("currency %d healing %d", s.State.Currency, s.State.HealingCurrency)
	}
	if s.State.WinStreak != 1 || s.Fighter.TotalWins != 1 || s.Fighter.Health != 12 {
		t.Fatalf("unexpected settlement %+v", s)
	}
	if s.State.Opponent.Category != catalog.Opponent {
		t.Fatalf("next opponent %+v is not an opponent", s.State.Opponent)
	}
}

func TestSettleWinLevelCycle(t *testing.T) {
	l := newLedger(t)
	l.Rules.LevelEvery = 3
	st, _ := l.NewState()
	fighter := NewMember("p1", l.Catalog.Playables()[0])

	var levels []bool
	for i := 0; i < 6; i++ {
		s, err := l.SettleEncounter(combat.PlayerWin, st, fighter, nil)
		if err != nil {
			t.Fatal(err)
		}
		levels = append(levels, s.LeveledUp)
		st, fighter = s.State, s.Fighter
	}
	want := []bool{false, false, true, false, false, true}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("level-ups = %v, want %v", levels, want)
		}
	}
	if st.TotalLevel != 3 || st.BattlesSinceLevelUp != 0 || st.WinStreak != 6 {
		t.Fatalf("state %+v", st)
	}
}

func TestSettleLoss(t *testing.T) {
	l := newLedger(t)
	st, _ := l.NewState()
	st.WinStreak = 4
	opp := st.Opponent
	fighter := NewMember("p1", l.Catalog.Playables()[0])
	fighter.Health = 0
	spare := NewMember("p1", l.Catalog.Playables()[0])

	s, err := l.SettleEncounter(combat.OpponentWin, st, fighter, []Member{spare})
	if err != nil {
		t.Fatal(err)
	}
	if s.State.WinStreak != 0 || s.State.Currency != st.Currency {
		t.Fatalf("state %+v", s.State)
	}
	if s.State.Opponent != opp {
		t.Fatalf("loss should keep the opponent")
	}
	if s.FailsafeGranted != 0 {
		t.Fatalf("failsafe granted with a healthy spare")
	}
}

func TestSettleLossFailsafe(t *testing.T) {
	l := newLedger(t)
	st, _ := l.NewState()
	fighter := NewMember("p1", l.Catalog.Playables()[0])
	fighter.Health = 0
	// the fighter's stale copy in the collection must not count as healthy
	stale := fighter
	stale.Health = 50

	s, err := l.SettleEncounter(combat.OpponentWin, st, fighter, []Member{stale})
	if err != nil {
		t.Fatal(err)
	}
	if s.FailsafeGranted != 3 || s.State.HealingCurrency != 3 {
		t.Fatalf("failsafe = %d, healing = %d", s.FailsafeGranted, s.State.HealingCurrency)
	}

	st.HealingCurrency = 1
	s, _ = l.SettleEncounter(combat.OpponentWin, st, fighter, nil)
	if s.FailsafeGranted != 0 || s.State.HealingCurrency != 1 {
		t.Fatalf("failsafe with healing left: %+v", s)
	}
}

func TestSettleContinueRejected(t *testing.T) {
	l := newLedger(t)
	st, _ := l.NewState()
	_, err := l.SettleEncounter(combat.Continue, st, Member{}, nil)
	if !errors.Is(err, ErrNotDecisive) {
		t.Fatalf("err = %v, want ErrNotDecisive", err)
	}
}

func TestHeal(t *testing.T) {
	l := newLedger(t)
	st := State{HealingCurrency: 2}
	m := NewMember("p1", l.Catalog.Playables()[0])

	if _, _, err := l.Heal(st, m); !errors.Is(err, ErrFullHealth) {
		t.Fatalf("err = %v, want ErrFullHealth", err)
	}

	m.Health = 45
	st, m, err := l.Heal(st, m)
	if err != nil {
		t.Fatal(err)
	}
	if m.Health != 50 || st.HealingCurrency != 1 {
		t.Fatalf("health %d healing %d", m.Health, st.HealingCurrency)
	}

	m.Health = 0
	st.HealingCurrency = 0
	_, _, err = l.Heal(st, m)
	var ife *InsufficientFundsError
	if !errors.As(err, &ife) || !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want InsufficientFundsError", err)
	}
	if ife.Currency != CurrencyHealing || ife.Required != 1 {
		t.Fatalf("error detail %+v", ife)
	}
}

func TestRename(t *testing.T) {
	m := Member{ChosenName: "Tabby"}
	if _, err := Rename(m, "   "); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
	m, err := Rename(m, "  Sir Whiskers ")
	if err != nil {
		t.Fatal(err)
	}
	if m.ChosenName != "Sir Whiskers" || !m.Renamed {
		t.Fatalf("member %+v", m)
	}
	if _, err := Rename(m, "Again"); !errors.Is(err, ErrAlreadyRenamed) {
		t.Fatalf("err = %v, want ErrAlreadyRenamed", err)
	}
}
