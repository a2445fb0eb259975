package combat

import (
	"errors"
	"math"
	"sort"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/gacha"
)

// maxRounds caps a simulated encounter. Two zero-power fighters would
// otherwise exchange forever.
const maxRounds = 10000

var ErrNoDamage = errors.New("neither side can deal damage")

// Stats summarizes simulation results.
type Stats struct {
	Trials  int
	WinRate float64 // share of trials the player side won
	Mean    float64 // rounds per encounter
	Var     float64
	StdDev  float64
	P50     float64
	P90     float64
	P99     float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Trials:  n,
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// simulateOne fights one full encounter from fresh combatants and returns the
// number of exchanges and the outcome.
func simulateOne(r Resolver, player, opponent catalog.FighterProfile) (int, Outcome) {
	p := NewCombatant(player.Name, player)
	o := NewCombatant(opponent.Name, opponent)
	if out := Decide(p, o); out.Decisive() {
		return 0, out
	}
	for round := 1; round <= maxRounds; round++ {
		if ex := r.ResolveExchange(&p, &o); ex.Outcome.Decisive() {
			return round, ex.Outcome
		}
	}
	return maxRounds, Continue
}

// RunMonteCarlo repeats whole encounters between two profiles and returns
// round-count stats plus the player's win rate.
func RunMonteCarlo(player, opponent catalog.FighterProfile, trials int, rng gacha.RandomSource) (Stats, error) {
	if trials <= 0 {
		return Stats{}, nil
	}
	if player.PowerLevel <= 0 && opponent.PowerLevel <= 0 && player.MaxHealth > 0 && opponent.MaxHealth > 0 {
		return Stats{}, ErrNoDamage
	}
	r := NewResolver(rng)
	samples := make([]int, trials)
	wins := 0
	for i := 0; i < trials; i++ {
		rounds, out := simulateOne(r, player, opponent)
		samples[i] = rounds
		if out == PlayerWin {
			wins++
		}
	}
	st := calcStats(samples)
	st.WinRate = float64(wins) / float64(trials)
	return st, nil
}
