package gacha_test

import (
	"errors"
	"math"
	"testing"

	"github.com/xtding233/gacha-arena/internal/gacha"
)

func TestDrawWeightedRejectsBadDistributions(t *testing.T) {
	cases := map[string][]gacha.Weighted[string]{
		"empty":    nil,
		"all zero": {{Item: "a", Weight: 0}, {Item: "b", Weight: 0}},
		"negative": {{Item: "a", Weight: 1}, {Item: "b", Weight: -1}},
		"nan":      {{Item: "a", Weight: math.NaN()}},
		"inf":      {{Item: "a", Weight: math.Inf(1)}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := gacha.DrawWeighted(items, gacha.NewSeededRNG(1))
			if !errors.Is(err, gacha.ErrInvalidDistribution) {
				t.Fatalf("err = %v, want ErrInvalidDistribution", err)
			}
		})
	}
}

func TestDrawWeightedSingleItem(t *testing.T) {
	items := []gacha.Weighted[string]{{Item: "only", Weight: 1}}
	rng := gacha.NewSeededRNG(9)
	for i := 0; i < 100; i++ {
		got, err := gacha.DrawWeighted(items, rng)
		if err != nil {
			t.Fatal(err)
		}
		if got != "only" {
			t.Fatalf("got %q", got)
		}
	}
}

func TestDrawWeightedSkipsZeroWeight(t *testing.T) {
	items := []gacha.Weighted[string]{
		{Item: "never", Weight: 0},
		{Item: "always", Weight: 0.3},
	}
	rng := gacha.NewSeededRNG(11)
	for i := 0; i < 1000; i++ {
		got, err := gacha.DrawWeighted(items, rng)
		if err != nil {
			t.Fatal(err)
		}
		if got != "always" {
			t.Fatalf("zero-weight item drawn at i=%d", i)
		}
	}
}

type fixedRNG float64

func (f fixedRNG) Float64() float64 { return float64(f) }

func TestDrawWeightedCumulativeBoundaries(t *testing.T) {
	items := []gacha.Weighted[string]{
		{Item: "a", Weight: 1},
		{Item: "b", Weight: 2},
		{Item: "c", Weight: 1},
	}
	// total 4: a covers [0,1), b [1,3), c [3,4)
	cases := []struct {
		u    float64
		want string
	}{
		{0, "a"},
		{0.2499, "a"},
		{0.25, "b"},
		{0.7499, "b"},
		{0.75, "c"},
		{0.999999, "c"},
	}
	for _, tc := range cases {
		got, err := gacha.DrawWeighted(items, fixedRNG(tc.u))
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("u=%v: got %q, want %q", tc.u, got, tc.want)
		}
	}
}

func TestDrawWeightedFrequencyConverges(t *testing.T) {
	items := []gacha.Weighted[int]{
		{Item: 0, Weight: 0.105},
		{Item: 1, Weight: 0.043},
		{Item: 2, Weight: 0.02},
		{Item: 3, Weight: 0.005},
	}
	total := 0.0
	for _, it := range items {
		total += it.Weight
	}

	const n = 20000
	rng := gacha.NewSeededRNG(42)
	counts := make([]int, len(items))
	for i := 0; i < n; i++ {
		got, err := gacha.DrawWeighted(items, rng)
		if err != nil {
			t.Fatal(err)
		}
		counts[got]++
	}
	for i, it := range items {
		p := it.Weight / total
		freq := float64(counts[i]) / n
		// 5 standard errors
		tol := 5 * math.Sqrt(p*(1-p)/n)
		if math.Abs(freq-p) > tol {
			t.Errorf("item %d: freq=%f want %f±%f", i, freq, p, tol)
		}
	}
}
