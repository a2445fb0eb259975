package gacha

import (
	"errors"
	"fmt"
)

var ErrInvalidDistribution = errors.New("invalid distribution; need at least one positive weight")

// Weighted pairs an item with its relative probability mass.
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// DrawWeighted picks one item with probability Weight/total.
// Weights are relative: they are normalized here, callers never pre-normalize.
//
// The roll u is uniform in [0, total); the first item whose cumulative weight
// exceeds u wins. Zero-weight items can never win.
func DrawWeighted[T any](items []Weighted[T], rng RandomSource) (T, error) {
	var zero T
	total := 0.0
	last := -1
	for i, it := range items {
		if !validateWeight(it.Weight) {
			return zero, fmt.Errorf("%w: weight[%d]=%v", ErrInvalidDistribution, i, it.Weight)
		}
		if it.Weight > 0 {
			total += it.Weight
			last = i
		}
	}
	if last < 0 {
		return zero, ErrInvalidDistribution
	}
	if rng == nil {
		rng = DefaultRNG()
	}

	u := rng.Float64() * total
	cum := 0.0
	for _, it := range items {
		if it.Weight <= 0 {
			continue
		}
		cum += it.Weight
		if cum > u {
			return it.Item, nil
		}
	}
	// float rounding can leave u == cum on the final item
	return items[last].Item, nil
}
