// Package combat resolves attack exchanges between two combatants.
//
// The resolver only tracks health. Round counting, setup framing and rewards
// belong to the battle and progression packages.
package combat

import (
	"errors"
	"fmt"
	"math"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/gacha"
)

const (
	critMultiplier = 2.0
	spreadLow      = 0.8
	spreadHigh     = 1.4
)

var ErrIneligibleCombatant = errors.New("combatant cannot fight")

// IneligibleError names the member that cannot start an encounter.
type IneligibleError struct {
	Name string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("%s has no health left; heal %s before battling", e.Name, e.Name)
}

func (e *IneligibleError) Is(target error) bool { return target == ErrIneligibleCombatant }

// CheckEligible fails when a fighter has no health to start an encounter with.
func CheckEligible(name string, health int) error {
	if health <= 0 {
		return &IneligibleError{Name: name}
	}
	return nil
}

// Outcome of one exchange.
type Outcome int

const (
	Continue Outcome = iota
	PlayerWin
	OpponentWin
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "CONTINUE"
	case PlayerWin:
		return "PLAYER_WIN"
	case OpponentWin:
		return "OPPONENT_WIN"
	default:
		return "UNKNOWN"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "CONTINUE":
		*o = Continue
	case "PLAYER_WIN":
		*o = PlayerWin
	case "OPPONENT_WIN":
		*o = OpponentWin
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

// Decisive reports whether the encounter is over.
func (o Outcome) Decisive() bool { return o == PlayerWin || o == OpponentWin }

// Combatant is a live, health-tracked instance of a profile.
type Combatant struct {
	Name    string                 `json:"name"`
	Profile catalog.FighterProfile `json:"profile"`
	Health  int                    `json:"health"`
}

// NewCombatant starts a combatant at full health.
func NewCombatant(name string, p catalog.FighterProfile) Combatant {
	return Combatant{Name: name, Profile: p, Health: p.MaxHealth}
}

// Down reports whether the combatant has no health left.
func (c Combatant) Down() bool { return c.Health <= 0 }

func (c *Combatant) takeDamage(d int) {
	c.Health -= d
	if c.Health < 0 {
		c.Health = 0
	}
}

// Hit is one side's attack within an exchange.
type Hit struct {
	Damage int  `json:"damage"`
	Crit   bool `json:"crit"`
}

// Exchange summarizes one resolveExchange call.
type Exchange struct {
	PlayerHit      Hit     `json:"player_hit"`
	OpponentHit    Hit     `json:"opponent_hit"`
	PlayerHealth   int     `json:"player_health"`
	OpponentHealth int     `json:"opponent_health"`
	Outcome        Outcome `json:"outcome"`
}

// Resolver applies the damage formulas. A nil RNG means gacha.DefaultRNG().
type Resolver struct {
	RNG gacha.RandomSource
}

func NewResolver(rng gacha.RandomSource) Resolver {
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	return Resolver{RNG: rng}
}

// ComputeDamage rolls one attack.
// - crit with probability critRate: round(power * 2)
// - otherwise: round(power * U(0.8, 1.4))
func (r Resolver) ComputeDamage(critRate float64, powerLevel int) (int, bool) {
	if powerLevel <= 0 {
		return 0, false
	}
	if math.IsNaN(critRate) {
		critRate = 0
	}
	critRate = math.Max(0, math.Min(1, critRate))
	crit, _ := gacha.Draw(critRate, r.RNG) // critRate already clamped to [0,1]
	if crit {
		return int(math.Round(float64(powerLevel) * critMultiplier)), true
	}
	d := math.Round(float64(powerLevel) * gacha.Between(r.RNG, spreadLow, spreadHigh))
	return int(d), false
}

// ResolveExchange runs one round: player hits opponent, then opponent hits
// player, each scaling off its own power level. The opponent always swings,
// even when the player's hit already knocked it out, so both can fall in the
// same exchange. A double knock-out goes to the opponent.
func (r Resolver) ResolveExchange(player, opponent *Combatant) Exchange {
	var ex Exchange

	ex.PlayerHit.Damage, ex.PlayerHit.Crit = r.ComputeDamage(player.Profile.CritRate, player.Profile.PowerLevel)
	opponent.takeDamage(ex.PlayerHit.Damage)

	ex.OpponentHit.Damage, ex.OpponentHit.Crit = r.ComputeDamage(opponent.Profile.CritRate, opponent.Profile.PowerLevel)
	player.takeDamage(ex.OpponentHit.Damage)

	ex.PlayerHealth = player.Health
	ex.OpponentHealth = opponent.Health
	ex.Outcome = Decide(*player, *opponent)
	return ex
}

// Decide maps both sides' health to an outcome, opponent first on a tie.
func Decide(player, opponent Combatant) Outcome {
	switch {
	case player.Down():
		return OpponentWin
	case opponent.Down():
		return PlayerWin
	default:
		return Continue
	}
}
