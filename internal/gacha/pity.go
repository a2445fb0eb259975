package gacha

// PitySystem handles a "hard pity": after Pity-1 rolls without a high-rarity
// result, the next roll is drawn from the high-rarity pool only.
// Pity <= 0 disables it.
type PitySystem struct {
	Pity  int       // threshold count before a guaranteed high-rarity roll
	Count int       // rolls since the last high-rarity result
	Soft  *SoftPity // optional ramp before the hard guarantee
}

// NewPitySystem restores a pity counter from persisted state.
func NewPitySystem(pity, count int) *PitySystem {
	if count < 0 {
		count = 0
	}
	return &PitySystem{Pity: pity, Count: count}
}

// Due reports whether the next roll is guaranteed.
func (ps *PitySystem) Due() bool {
	return ps.Pity > 0 && ps.Count+1 >= ps.Pity
}

// Record updates the counter after a roll.
// - On hit, Count resets to 0; otherwise, Count increments
func (ps *PitySystem) Record(hit bool) {
	if hit {
		ps.Count = 0
		return
	}
	ps.Count++
}
