package gacha

import (
	"math"
)

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

// validateWeight accepts any finite, non-negative weight. Zero is allowed;
// such items simply never win.
func validateWeight(w float64) bool {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return false
	}
	return w >= 0
}
