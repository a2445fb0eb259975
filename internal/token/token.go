package token

// Token defines how much currency a number of rolls costs.
type Token struct {
	Name       string // e.g. "coins"
	PerDraw    int    // currency per single roll, e.g. 10
	PerTenDraw int    // optional bundle price; if 0 -> 10 * PerDraw
}

// TokensForDraws returns how much currency n rolls cost. Full bundles of ten
// use PerTenDraw when it is set; the remainder is charged per roll.
func (t Token) TokensForDraws(n int) int {
	if n <= 0 {
		return 0
	}
	if t.PerTenDraw > 0 && n >= 10 {
		tens := n / 10
		rem := n % 10
		return tens*t.PerTenDraw + rem*t.PerDraw
	}
	return n * t.PerDraw
}

// Affordable returns the largest n <= max such that TokensForDraws(n) <= balance.
func (t Token) Affordable(balance, max int) int {
	for n := max; n > 0; n-- {
		if t.TokensForDraws(n) <= balance {
			return n
		}
	}
	return 0
}
