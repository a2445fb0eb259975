package combat

import (
	"errors"
	"testing"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/gacha"
)

func TestRunMonteCarloLopsidedMatchup(t *testing.T) {
	strong := profile("Tony", catalog.Playable, 80, 11, 0.1)
	weak := profile("Cheesy", catalog.Opponent, 8, 4, 0)

	st, err := RunMonteCarlo(strong, weak, 2000, gacha.NewSeededRNG(42))
	if err != nil {
		t.Fatal(err)
	}
	if st.Trials != 2000 || len(st.Samples) != 2000 {
		t.Fatalf("trials = %d samples = %d", st.Trials, len(st.Samples))
	}
	// the weakest non-crit hit is round(11*0.8)=9, more than 8 hp
	if st.WinRate != 1 {
		t.Fatalf("win rate = %f, want 1", st.WinRate)
	}
	if st.Mean != 1 || st.P99 != 1 {
		t.Fatalf("expected one-round encounters, got mean=%f p99=%f", st.Mean, st.P99)
	}
}

func TestRunMonteCarloStatsOrdering(t *testing.T) {
	a := profile("Ginger", catalog.Playable, 50, 5, 0.03)
	b := profile("Kit", catalog.Opponent, 50, 9, 0.06)
	st, err := RunMonteCarlo(a, b, 3000, gacha.NewSeededRNG(5))
	if err != nil {
		t.Fatal(err)
	}
	if st.WinRate < 0 || st.WinRate > 0.5 {
		t.Fatalf("weaker fighter should win less than half, got %f", st.WinRate)
	}
	if !(st.P50 <= st.P90 && st.P90 <= st.P99) {
		t.Fatalf("percentiles out of order: %+v", st)
	}
	if st.StdDev < 0 || st.Var < 0 {
		t.Fatalf("negative spread: %+v", st)
	}
}

func TestRunMonteCarloEdgeCases(t *testing.T) {
	if st, err := RunMonteCarlo(catalog.FighterProfile{}, catalog.FighterProfile{}, 0, nil); err != nil || st.Trials != 0 {
		t.Fatalf("zero trials should be a no-op, got %+v %v", st, err)
	}
	idle := profile("idle", catalog.Playable, 10, 0, 0)
	if _, err := RunMonteCarlo(idle, idle, 10, gacha.NewSeededRNG(1)); !errors.Is(err, ErrNoDamage) {
		t.Fatalf("err = %v, want ErrNoDamage", err)
	}
}

func TestCalcStats(t *testing.T) {
	st := calcStats([]int{1, 2, 3, 4})
	if st.Mean != 2.5 || st.Var != 1.25 {
		t.Fatalf("mean/var = %f/%f", st.Mean, st.Var)
	}
	if st.P50 != 2.5 {
		t.Fatalf("p50 = %f", st.P50)
	}
	if empty := calcStats(nil); empty.Trials != 0 || empty.Samples != nil {
		t.Fatal("empty input should give zero stats")
	}
}
