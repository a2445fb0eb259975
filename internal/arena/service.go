// Package arena wires the catalog, progression ledger, battle sessions and a
// store into the operations the transports expose.
package arena

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xtding233/gacha-arena/internal/battle"
	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/combat"
	"github.com/xtding233/gacha-arena/internal/gacha"
	"github.com/xtding233/gacha-arena/internal/game"
	"github.com/xtding233/gacha-arena/internal/progression"
	"github.com/xtding233/gacha-arena/internal/storage"
)

const maxUsernameLength = 32

type Service struct {
	store   storage.Store
	battles *battle.Manager
	rng     gacha.RandomSource
	players playerLocks // held across read-modify-commit per player

	mu      sync.RWMutex
	rules   game.Rules
	catalog *catalog.Catalog
}

// New builds a service. A nil rng means gacha.DefaultRNG().
func New(store storage.Store, rules game.Rules, cat *catalog.Catalog, rng gacha.RandomSource) *Service {
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	return &Service{
		store:   store,
		battles: battle.NewManager(combat.NewResolver(rng)),
		rng:     rng,
		rules:   rules,
		catalog: cat,
	}
}

// Reconfigure swaps rules and catalog. Running encounters keep the profiles
// they started with.
func (s *Service) Reconfigure(rules game.Rules, cat *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = rules
	s.catalog = cat
}

func (s *Service) Rules() game.Rules {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules
}

func (s *Service) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

func (s *Service) ledger() progression.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return progression.Ledger{Rules: s.rules, Catalog: s.catalog, RNG: s.rng}
}

// RollsAffordable is how many rolls (up to one request's worth) the state can
// pay for right now.
func (s *Service) RollsAffordable(st progression.State) int {
	return s.ledger().Cost().Affordable(st.Currency, progression.MaxRollsPerRequest)
}

// Register creates a player with seeded progression.
func (s *Service) Register(ctx context.Context, username string) (progression.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		return progression.Player{}, fmt.Errorf("%w: must be 1-%d characters", ErrInvalidUsername, maxUsernameLength)
	}
	st, err := s.ledger().NewState()
	if err != nil {
		return progression.Player{}, err
	}
	p, err := s.store.CreatePlayer(ctx, progression.Player{
		ID:        uuid.NewString(),
		Username:  username,
		State:     st,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return progression.Player{}, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		return progression.Player{}, &PersistenceError{Op: "create player", Err: err}
	}
	return p, nil
}

// Player loads one player.
func (s *Service) Player(ctx context.Context, id string) (progression.Player, error) {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return progression.Player{}, readErr("get player", "player "+id, err)
	}
	return p, nil
}

// Collection lists a player's members.
func (s *Service) Collection(ctx context.Context, playerID string) ([]progression.Member, error) {
	ms, err := s.store.ListMembers(ctx, playerID)
	if err != nil {
		return nil, readErr("list members", "player "+playerID, err)
	}
	return ms, nil
}

func (s *Service) member(ctx context.Context, playerID, memberID string) (progression.Member, error) {
	m, err := s.store.GetMember(ctx, playerID, memberID)
	if err != nil {
		return progression.Member{}, readErr("get member", "member "+memberID, err)
	}
	return m, nil
}

func readErr(op, what string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return &PersistenceError{Op: op, Err: err}
}

func (s *Service) commit(ctx context.Context, op string, p progression.Player, members ...progression.Member) (progression.Player, error) {
	next, err := s.store.Commit(ctx, storage.Change{Player: p, ExpectedVersion: p.Version, Members: members})
	if err != nil {
		return progression.Player{}, &PersistenceError{Op: op, Err: err}
	}
	return next, nil
}

// GachaResult is a stored batch of rolls.
type GachaResult struct {
	Rolls       []progression.RollResult `json:"rolls"`
	CostApplied int                      `json:"cost_applied"`
	Player      progression.Player       `json:"player"`
}

// DrawGacha rolls n times and stores the outcome in one commit.
func (s *Service) DrawGacha(ctx context.Context, playerID string, n int) (GachaResult, error) {
	defer s.players.lock(playerID)()
	p, err := s.Player(ctx, playerID)
	if err != nil {
		return GachaResult{}, err
	}
	owned, err := s.Collection(ctx, playerID)
	if err != nil {
		return GachaResult{}, err
	}
	out, err := s.ledger().RollGacha(p.State, owned, playerID, n)
	if err != nil {
		return GachaResult{}, err
	}
	p.State = out.State
	next, err := s.commit(ctx, "store gacha roll", p, out.NewMembers...)
	if err != nil {
		return GachaResult{}, err
	}
	return GachaResult{Rolls: out.Rolls, CostApplied: out.CostApplied, Player: next}, nil
}

// BeginEncounter sets up a battle between a member and the player's current
// opponent.
func (s *Service) BeginEncounter(ctx context.Context, playerID, memberID string) (battle.Session, error) {
	defer s.players.lock(playerID)()
	p, err := s.Player(ctx, playerID)
	if err != nil {
		return battle.Session{}, err
	}
	m, err := s.member(ctx, playerID, memberID)
	if err != nil {
		return battle.Session{}, err
	}
	return s.battles.Begin(playerID, m, p.State.Opponent)
}

// Encounter returns the player's current session, if any.
func (s *Service) Encounter(playerID string) (battle.Session, bool) {
	return s.battles.Current(playerID)
}

// AdvanceEncounter resolves one exchange.
func (s *Service) AdvanceEncounter(ctx context.Context, playerID string) (battle.RoundSummary, error) {
	defer s.players.lock(playerID)()
	if err := ctx.Err(); err != nil {
		return battle.RoundSummary{}, err
	}
	return s.battles.Advance(playerID)
}

// EncounterResult is a stored settlement.
type EncounterResult struct {
	progression.Settlement
	Rounds int                `json:"rounds"`
	Player progression.Player `json:"player"`
}

// SettleEncounter stores the outcome of a resolved encounter and clears it.
// When the store fails the session stays resolved so the caller can retry.
// Settlement holds the player's lock, so a resolved session is credited once.
func (s *Service) SettleEncounter(ctx context.Context, playerID string) (EncounterResult, error) {
	defer s.players.lock(playerID)()
	sess, err := s.battles.Resolved(playerID)
	if err != nil {
		return EncounterResult{}, err
	}
	p, err := s.Player(ctx, playerID)
	if err != nil {
		return EncounterResult{}, err
	}
	members, err := s.Collection(ctx, playerID)
	if err != nil {
		return EncounterResult{}, err
	}
	var (
		fighter progression.Member
		found   bool
	)
	for _, m := range members {
		if m.ID == sess.MemberID {
			fighter, found = m, true
			break
		}
	}
	if !found {
		return EncounterResult{}, fmt.Errorf("member %s: %w", sess.MemberID, storage.ErrNotFound)
	}
	fighter.Health = sess.Player.Health

	st, err := s.ledger().SettleEncounter(sess.Outcome, p.State, fighter, members)
	if err != nil {
		return EncounterResult{}, err
	}
	p.State = st.State
	next, err := s.commit(ctx, "store encounter", p, st.Fighter)
	if err != nil {
		return EncounterResult{}, err
	}
	s.battles.Clear(playerID)
	return EncounterResult{Settlement: st, Rounds: sess.Round, Player: next}, nil
}

// AbandonEncounter ends an unresolved encounter without rewards. Damage the
// member already took is kept.
func (s *Service) AbandonEncounter(ctx context.Context, playerID string) error {
	defer s.players.lock(playerID)()
	sess, ok := s.battles.Current(playerID)
	if !ok {
		return battle.ErrNoActiveEncounter
	}
	if sess.Phase == battle.Resolved {
		return battle.ErrEncounterResolved
	}
	if sess.Round > 0 {
		p, err := s.Player(ctx, playerID)
		if err != nil {
			return err
		}
		m, err := s.member(ctx, playerID, sess.MemberID)
		if err != nil {
			return err
		}
		m.Health = sess.Player.Health
		if _, err := s.commit(ctx, "store abandoned encounter", p, m); err != nil {
			return err
		}
	}
	return s.battles.Abandon(playerID)
}

// HealMember spends one healing currency on a member that is not fighting.
func (s *Service) HealMember(ctx context.Context, playerID, memberID string) (progression.Player, progression.Member, error) {
	defer s.players.lock(playerID)()
	if sess, ok := s.battles.Current(playerID); ok && sess.MemberID == memberID {
		return progression.Player{}, progression.Member{}, fmt.Errorf("%w: %s is fighting", battle.ErrEncounterAlreadyActive, sess.Player.Name)
	}
	p, err := s.Player(ctx, playerID)
	if err != nil {
		return progression.Player{}, progression.Member{}, err
	}
	m, err := s.member(ctx, playerID, memberID)
	if err != nil {
		return progression.Player{}, progression.Member{}, err
	}
	st, m, err := s.ledger().Heal(p.State, m)
	if err != nil {
		return progression.Player{}, progression.Member{}, err
	}
	p.State = st
	next, err := s.commit(ctx, "store heal", p, m)
	if err != nil {
		return progression.Player{}, progression.Member{}, err
	}
	return next, m, nil
}

// RenameMember gives a member its one custom name.
func (s *Service) RenameMember(ctx context.Context, playerID, memberID, name string) (progression.Member, error) {
	defer s.players.lock(playerID)()
	p, err := s.Player(ctx, playerID)
	if err != nil {
		return progression.Member{}, err
	}
	m, err := s.member(ctx, playerID, memberID)
	if err != nil {
		return progression.Member{}, err
	}
	m, err = progression.Rename(m, name)
	if err != nil {
		return progression.Member{}, err
	}
	if _, err := s.commit(ctx, "store rename", p, m); err != nil {
		return progression.Member{}, err
	}
	return m, nil
}
