package gacha_test

import (
	"testing"

	"github.com/xtding233/gacha-arena/internal/gacha"
)

func TestPitySystem(t *testing.T) {
	ps := gacha.NewPitySystem(10, 0)

	// first 9 misses should not make pity due before the 10th roll
	for i := 0; i < 9; i++ {
		if ps.Due() {
			t.Fatalf("should not be due before pity, i=%d", i)
		}
		ps.Record(false)
	}
	// the 10th roll should be guaranteed by pity
	if !ps.Due() {
		t.Fatalf("expected pity due at 10th roll")
	}
	ps.Record(true)
	if ps.Count != 0 {
		t.Fatalf("count should reset after pity hit; got %d", ps.Count)
	}
}

func TestPityDisabled(t *testing.T) {
	ps := gacha.NewPitySystem(0, 500)
	if ps.Due() {
		t.Fatalf("pity 0 must never be due")
	}
	if got := gacha.NewPitySystem(5, -3).Count; got != 0 {
		t.Fatalf("negative count should clamp to 0; got %d", got)
	}
}
