// Package progression turns battle and roll outcomes into currency, collection
// and level changes. Everything here is a pure function of its inputs; callers
// persist the returned values.
package progression

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xtding233/gacha-arena/internal/catalog"
)

const (
	CurrencyCoins   = "coins"
	CurrencyHealing = "healing"

	// MaxRollsPerRequest bounds one multi-roll.
	MaxRollsPerRequest = 10
	maxNameLength      = 32
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotDecisive       = errors.New("encounter outcome is not decisive")
	ErrFullHealth        = errors.New("member is already at full health")
	ErrAlreadyRenamed    = errors.New("member was already renamed")
	ErrInvalidName       = errors.New("invalid member name")
	ErrInvalidRollCount  = errors.New("invalid roll count")
)

// InsufficientFundsError reports what an action needed against what the
// player had.
type InsufficientFundsError struct {
	Currency  string
	Required  int
	Available int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("not enough %s: need %d, have %d", e.Currency, e.Required, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// State is one player's progression.
type State struct {
	Currency            int                    `json:"currency"`
	HealingCurrency     int                    `json:"healing_currency"`
	WinStreak           int                    `json:"win_streak"`
	TotalLevel          int                    `json:"total_level"`
	BattlesSinceLevelUp int                    `json:"battles_since_level_up"`
	Opponent            catalog.FighterProfile `json:"opponent"`
	PityCount           int                    `json:"pity_count"`
}

// Player is the persisted account record. Version is bumped by the store on
// every successful commit.
type Player struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	State     State     `json:"state"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is an owned fighter. Profile is a snapshot taken when it was rolled.
type Member struct {
	ID         string                 `json:"id"`
	OwnerID    string                 `json:"owner_id"`
	ChosenName string                 `json:"chosen_name"`
	Renamed    bool                   `json:"renamed"`
	Profile    catalog.FighterProfile `json:"profile"`
	Health     int                    `json:"health"`
	TotalWins  int                    `json:"total_wins"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewMember creates a member at full health named after its profile.
func NewMember(ownerID string, p catalog.FighterProfile) Member {
	return Member{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		ChosenName: p.Name,
		Profile:    p,
		Health:     p.MaxHealth,
		CreatedAt:  time.Now().UTC(),
	}
}

// Eligible reports whether the member can start an encounter.
func (m Member) Eligible() bool { return m.Health > 0 }

// Reward is a currency grant.
type Reward struct {
	Coins   int `json:"coins"`
	Healing int `json:"healing"`
}

func (s State) credit(r Reward) State {
	s.Currency += r.Coins
	s.HealingCurrency += r.Healing
	return s
}
