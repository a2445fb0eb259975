// Package battle keeps the per-player encounter state machine.
package battle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/combat"
	"github.com/xtding233/gacha-arena/internal/progression"
)

var (
	ErrEncounterAlreadyActive = errors.New("an encounter is already active")
	ErrNoActiveEncounter      = errors.New("no active encounter")
	ErrEncounterResolved      = errors.New("encounter already resolved")
	ErrNotResolved            = errors.New("encounter not resolved yet")
)

type Phase string

const (
	Setup      Phase = "SETUP"
	InProgress Phase = "IN_PROGRESS"
	Resolved   Phase = "RESOLVED"
)

// Session is one player's encounter.
type Session struct {
	PlayerID string           `json:"player_id"`
	MemberID string           `json:"member_id"`
	Player   combat.Combatant `json:"player"`
	Opponent combat.Combatant `json:"opponent"`
	Round    int              `json:"round"`
	Phase    Phase            `json:"phase"`
	Outcome  combat.Outcome   `json:"outcome"`
	Log      []RoundSummary   `json:"log,omitempty"`
}

// RoundSummary describes one exchange.
type RoundSummary struct {
	Round int `json:"round"`
	combat.Exchange
}

func (s *Session) clone() Session {
	out := *s
	out.Log = append([]RoundSummary(nil), s.Log...)
	return out
}

// Manager holds at most one session per player.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	resolver combat.Resolver
}

func NewManager(r combat.Resolver) *Manager {
	return &Manager{sessions: make(map[string]*Session), resolver: r}
}

// Begin sets up an encounter between a member and an opponent. No damage is
// dealt until the first Advance.
func (m *Manager) Begin(playerID string, member progression.Member, opponent catalog.FighterProfile) (Session, error) {
	if err := combat.CheckEligible(member.ChosenName, member.Health); err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[playerID]; ok {
		return Session{}, fmt.Errorf("%w: %s is fighting %s", ErrEncounterAlreadyActive, s.Player.Name, s.Opponent.Name)
	}

	player := combat.NewCombatant(member.ChosenName, member.Profile)
	player.Health = member.Health
	s := &Session{
		PlayerID: playerID,
		MemberID: member.ID,
		Player:   player,
		Opponent: combat.NewCombatant(opponent.Name, opponent),
		Phase:    Setup,
		Outcome:  combat.Continue,
	}
	m.sessions[playerID] = s
	return s.clone(), nil
}

// Advance resolves one exchange.
func (m *Manager) Advance(playerID string) (RoundSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[playerID]
	if !ok {
		return RoundSummary{}, ErrNoActiveEncounter
	}
	if s.Phase == Resolved {
		return RoundSummary{}, ErrEncounterResolved
	}

	ex := m.resolver.ResolveExchange(&s.Player, &s.Opponent)
	s.Round++
	s.Outcome = ex.Outcome
	if ex.Outcome.Decisive() {
		s.Phase = Resolved
	} else {
		s.Phase = InProgress
	}
	sum := RoundSummary{Round: s.Round, Exchange: ex}
	s.Log = append(s.Log, sum)
	return sum, nil
}

// Current returns a copy of the player's session.
func (m *Manager) Current(playerID string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[playerID]
	if !ok {
		return Session{}, false
	}
	return s.clone(), true
}

// Resolved returns the finished session awaiting settlement.
func (m *Manager) Resolved(playerID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[playerID]
	if !ok {
		return Session{}, ErrNoActiveEncounter
	}
	if s.Phase != Resolved {
		return Session{}, ErrNotResolved
	}
	return s.clone(), nil
}

// Clear drops a resolved session once its settlement is stored.
func (m *Manager) Clear(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[playerID]; ok && s.Phase == Resolved {
		delete(m.sessions, playerID)
	}
}

// Abandon drops an unresolved session without settling it.
func (m *Manager) Abandon(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[playerID]
	if !ok {
		return ErrNoActiveEncounter
	}
	if s.Phase == Resolved {
		return ErrEncounterResolved
	}
	delete(m.sessions, playerID)
	return nil
}

// Active counts sessions in memory.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
