package gacha_test

import (
	"errors"
	"math"
	"testing"

	"github.com/xtding233/gacha-arena/internal/gacha"
)

func TestSoftPityValidate(t *testing.T) {
	ok := gacha.SoftPity{StartAt: 6, TargetProb: 0.5}
	if err := ok.Validate(10); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if ok.Easing != gacha.EaseLinear {
		t.Fatalf("easing = %q, want linear", ok.Easing)
	}

	bad := map[string]struct {
		s    gacha.SoftPity
		pity int
	}{
		"no pity":      {gacha.SoftPity{StartAt: 0, TargetProb: 0.5}, 1},
		"target 1":     {gacha.SoftPity{StartAt: 2, TargetProb: 1}, 10},
		"target 0":     {gacha.SoftPity{StartAt: 2, TargetProb: 0}, 10},
		"start at end": {gacha.SoftPity{StartAt: 9, TargetProb: 0.5}, 10},
		"easing":       {gacha.SoftPity{StartAt: 2, TargetProb: 0.5, Easing: "bounce"}, 10},
	}
	for name, tc := range bad {
		if err := tc.s.Validate(tc.pity); !errors.Is(err, gacha.ErrSoftPityConfig) {
			t.Errorf("%s: err = %v, want ErrSoftPityConfig", name, err)
		}
	}
}

func TestPityChanceRamp(t *testing.T) {
	soft := &gacha.SoftPity{StartAt: 6, TargetProb: 0.5, Easing: gacha.EaseLinear}
	ps := &gacha.PitySystem{Pity: 10, Soft: soft}

	want := map[int]float64{
		0: 0,   // before the ramp
		5: 0,   // still before
		6: 0.1, // ramp start sits at the base share
		9: 1,   // hard pity
	}
	for count, w := range want {
		ps.Count = count
		if got := ps.Chance(0.1); math.Abs(got-w) > 1e-9 {
			t.Errorf("count %d: chance = %v, want %v", count, got, w)
		}
	}

	// strictly increasing inside the ramp
	prev := -1.0
	for count := 6; count < 9; count++ {
		ps.Count = count
		got := ps.Chance(0.1)
		if got <= prev || got >= 1 {
			t.Fatalf("count %d: chance %v not increasing below 1", count, got)
		}
		prev = got
	}
}

func TestPityChanceWithoutRamp(t *testing.T) {
	ps := gacha.NewPitySystem(10, 3)
	if got := ps.Chance(0.2); got != 0 {
		t.Fatalf("chance = %v, want 0 without a ramp", got)
	}
	ps.Count = 9
	if got := ps.Chance(0.2); got != 1 {
		t.Fatalf("chance = %v, want 1 at hard pity", got)
	}
}

func TestPityChanceEasings(t *testing.T) {
	for _, e := range []gacha.Easing{gacha.EaseOutQuad, gacha.EaseInOutCubic} {
		ps := &gacha.PitySystem{Pity: 20, Count: 12, Soft: &gacha.SoftPity{StartAt: 5, TargetProb: 0.6, Easing: e}}
		got := ps.Chance(0.05)
		if got <= 0.05 || got >= 0.6 {
			t.Errorf("%s: chance %v outside (0.05, 0.6)", e, got)
		}
	}
}
